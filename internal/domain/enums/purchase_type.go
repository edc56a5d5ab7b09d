package enums

type PurchaseType string

const (
	PurchaseTypeUC     PurchaseType = "uc"
	PurchaseTypeBundle PurchaseType = "bundle"
)
