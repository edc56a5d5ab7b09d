package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
)

var funcs = template.FuncMap{
	"nl2br": func(s string) template.HTML {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
	},
}

var templates = template.Must(template.New("mail").Funcs(funcs).Parse(`
{{define "new_order"}}<div dir="rtl">
  <h2>طلب جديد #{{.ID}}</h2>
  <p><strong>الاسم:</strong> {{.Name}}</p>
  <p><strong>معرف اللاعب:</strong> {{.PlayerID}}</p>
  <p><strong>البريد:</strong> {{.Email}}</p>
  <p><strong>الاختيار:</strong> {{.Selection}}</p>
  <p><strong>المبلغ:</strong> {{.TotalAmount.StringFixed 2}}</p>
  <p><strong>رقم التحويل:</strong> {{.TransactionID}}</p>
</div>{{end}}
{{define "order_status"}}<div dir="rtl" style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ffa726;">تحديث حالة طلبك #{{.ID}}</h2>
  <p>مرحباً {{.Name}}،</p>
  <p>حالة طلبك الآن: <strong>{{.Status.Label}}</strong></p>
</div>{{end}}
{{define "new_inquiry"}}<div dir="rtl">
  <h2>استفسار جديد</h2>
  <p><strong>الاسم:</strong> {{.Name}}</p>
  <p><strong>البريد:</strong> {{.Email}}</p>
  <p><strong>الرسالة:</strong></p>
  <div style="background:#f5f5f5;padding:10px;border-right:3px solid #ffa726;">{{nl2br .Message}}</div>
</div>{{end}}
{{define "new_suggestion"}}<div dir="rtl">
  <h2>اقتراح جديد</h2>
  <p><strong>الاسم:</strong> {{.Name}}</p>
  <p><strong>التواصل:</strong> {{.Contact}}</p>
  <p><strong>الاقتراح:</strong></p>
  <div style="background:#f5f5f5;padding:10px;border-right:3px solid #25D366;">{{nl2br .Message}}</div>
</div>{{end}}
{{define "inquiry_reply"}}<div dir="rtl" style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ffa726;">شكراً لتواصلك معنا</h2>
  <p><strong>استفسارك:</strong></p>
  <div style="background:#f5f5f5;padding:10px;border-right:3px solid #ffa726;">{{nl2br .Question}}</div>
  <h3 style="color: #2196F3;">رد الفريق:</h3>
  <div style="background:#f5f5f5;padding:10px;border-right:3px solid #2196F3;">{{nl2br .Reply}}</div>
</div>{{end}}
{{define "broadcast"}}<div dir="rtl" style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ffa726;">{{.Subject}}</h2>
  <div style="background:#f5f5f5;padding:15px;border-right:3px solid #2196F3;">{{nl2br .Message}}</div>
</div>{{end}}
`))

func render(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		// Templates are static; a failure here means a broken field reference.
		return template.HTMLEscapeString(fmt.Sprintf("%v", data))
	}
	return strings.TrimSpace(buf.String())
}

func NewOrder(o model.Order) Notification {
	return Notification{
		Kind: KindNewOrder,
		Emails: []EmailMessage{{
			Subject: fmt.Sprintf("طلب جديد #%d", o.ID),
			HTML:    render("new_order", o),
		}},
		Chat: &ChatMessage{Text: fmt.Sprintf(
			"🛒 طلب جديد #%d\nالاسم: %s\nمعرف اللاعب: %s\nالبريد: %s\nالاختيار: %s\nالمبلغ: %s\nرقم التحويل: %s",
			o.ID, o.Name, o.PlayerID, o.Email, o.Selection(), o.TotalAmount.StringFixed(2), o.TransactionID,
		)},
	}
}

// OrderStatusChanged notifies staff chat and mails the customer.
func OrderStatusChanged(o model.Order) Notification {
	n := Notification{
		Kind: KindOrderStatus,
		Chat: &ChatMessage{Text: fmt.Sprintf("🔄 الطلب #%d: %s", o.ID, o.Status.Label())},
	}
	if strings.TrimSpace(o.Email) != "" {
		n.Emails = []EmailMessage{{
			To:      o.Email,
			Subject: fmt.Sprintf("تحديث حالة الطلب #%d", o.ID),
			HTML:    render("order_status", o),
		}}
	}
	return n
}

func NewInquiry(i model.Inquiry) Notification {
	return Notification{
		Kind: KindNewInquiry,
		Emails: []EmailMessage{{
			Subject: "استفسار جديد",
			HTML:    render("new_inquiry", i),
		}},
		Chat: &ChatMessage{Text: fmt.Sprintf("❓ استفسار جديد #%d من %s\n%s", i.ID, i.Email, i.Message)},
	}
}

func NewSuggestion(s model.Suggestion) Notification {
	return Notification{
		Kind: KindNewSuggestion,
		Emails: []EmailMessage{{
			Subject: "اقتراح جديد",
			HTML:    render("new_suggestion", s),
		}},
		Chat: &ChatMessage{Text: fmt.Sprintf("💡 اقتراح جديد من %s (%s)\n%s", s.Name, s.Contact, s.Message)},
	}
}

func InquiryReply(to, question, reply string) EmailMessage {
	return EmailMessage{
		To:      to,
		Subject: "رد على استفسارك",
		HTML: render("inquiry_reply", struct {
			Question string
			Reply    string
		}{question, reply}),
	}
}

func Broadcast(to, subject, message string) EmailMessage {
	return EmailMessage{
		To:      to,
		Subject: subject,
		HTML: render("broadcast", struct {
			Subject string
			Message string
		}{subject, message}),
	}
}
