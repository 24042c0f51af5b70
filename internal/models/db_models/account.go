package db_models

type Account struct {
	BaseModel
	Name         string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	AvatarURL    *string
}
