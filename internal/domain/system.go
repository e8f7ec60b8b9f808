package domain

import (
	"time"
)

// SysKV is one durable key/value entry when the SQL storage backend is used.
// Value holds the JSON encoded blob exactly as the other backends store it.
type SysKV struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     []byte    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysKV) TableName() string {
	return "sys_kv"
}
