package model

import "time"

// Receipt は会計成功時にローカルへ残すジャーナル。
// バックエンドで確定した金額のスナップショット。
type Receipt struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionID        string    `gorm:"type:varchar(36);not null;index" json:"session_id"`
	EmpCd            string    `gorm:"type:varchar(10);not null" json:"emp_cd"`
	StoreCd          string    `gorm:"type:varchar(5);not null" json:"store_cd"`
	PosNo            string    `gorm:"type:varchar(3);not null" json:"pos_no"`
	TotalAmount      int64     `gorm:"not null" json:"total_amount"`
	TotalAmountExTax int64     `gorm:"not null" json:"total_amount_ex_tax"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Lines []ReceiptLine `gorm:"foreignKey:ReceiptID" json:"lines"`
}

// ReceiptLine はジャーナルの明細。追加時点の商品情報を保存する。
type ReceiptLine struct {
	ID                  int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ReceiptID           string `gorm:"type:varchar(36);not null;index" json:"receipt_id"`
	ProductID           int64  `gorm:"not null" json:"product_id"`
	ProductCodeSnapshot string `gorm:"type:varchar(13);not null" json:"product_code_snapshot"`
	ProductNameSnapshot string `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	UnitPriceSnapshot   int64  `gorm:"not null" json:"unit_price_snapshot"`
	Quantity            int64  `gorm:"not null" json:"quantity"`
}
