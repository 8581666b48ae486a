package model

// PurchaseRequest は会計時にバックエンドへ送るスナップショット。
type PurchaseRequest struct {
	EmpCd   string     `json:"emp_cd"`
	StoreCd string     `json:"store_cd"`
	PosNo   string     `json:"pos_no"`
	Items   []CartLine `json:"items"`
}

// PurchaseResult はバックエンドの会計結果。
// カートのクリアは Success=true のときだけ。
type PurchaseResult struct {
	Success          bool  `json:"success"`
	TotalAmount      int64 `json:"total_amount"`
	TotalAmountExTax int64 `json:"total_amount_ex_tax"`
}
