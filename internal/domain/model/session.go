package model

import "time"

// RegisterSession はレジ1台分の状態。
// Submitting は会計の二重送信ガード（送信中はtrue）。
type RegisterSession struct {
	ID         string
	Cart       Cart
	Submitting bool
	CreatedAt  time.Time
}
