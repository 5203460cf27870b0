package admin

const PasscodeKey = "admin_passcode"

// AdminConfig is a key/value row. The passcode row stores a bcrypt hash.
type AdminConfig struct {
	Key   string `gorm:"type:text;primaryKey"`
	Value string `gorm:"type:text;not null"`
}

func (AdminConfig) TableName() string { return "admin_configs" }
