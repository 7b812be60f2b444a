package models

type User struct {
	Id       int    `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	UserType string `db:"user_type"`
	PassHash []byte `db:"password_hash"`
}
