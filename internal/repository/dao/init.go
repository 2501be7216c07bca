package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&QRCode{},
		&UserQRCode{},
		&ExchangeToken{},
		&Redemption{},
		&GrandPrix{},
		&GrandPrixPrize{},
		&GrandPrixParticipation{},
		&GrandPrixDraw{},
	)
}
