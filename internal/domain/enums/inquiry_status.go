package enums

type InquiryStatus string

const (
	InquiryStatusPending InquiryStatus = "pending"
	InquiryStatusReplied InquiryStatus = "replied"
)

func (s InquiryStatus) Label() string {
	switch s {
	case InquiryStatusPending:
		return "قيد الانتظار"
	case InquiryStatusReplied:
		return "تم الرد"
	default:
		return string(s)
	}
}
