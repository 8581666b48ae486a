package model

// Product はバックエンドの商品マスタ検索結果。
// 取得後は不変。Priceは税込単価（最小通貨単位、円）。
type Product struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
