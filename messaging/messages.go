package messaging

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"storefront/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type PaymentContact struct {
	Number string `mapstructure:"number" json:"number"`
	Name   string `mapstructure:"name" json:"name"`
}

type Customer struct {
	FullName        string
	Phone           string
	DeliveryAddress string
}

type Settings struct {
	ShopName        string
	BaseURL         string
	Location        *time.Location
	PaymentContacts []PaymentContact
}

// Formatter renders the customer and shop facing order messages.
type Formatter struct {
	settings Settings
	printer  *message.Printer
}

func NewFormatter(s Settings) *Formatter {
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.ShopName == "" {
		s.ShopName = "Drink It"
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	return &Formatter{settings: s, printer: message.NewPrinter(language.Portuguese)}
}

func (f *Formatter) Money(v float64) string {
	return f.printer.Sprintf("%.2f MT", v)
}

func (f *Formatter) AdminLink() string {
	return f.settings.BaseURL + "/admin"
}

var newOrderTmpl = template.Must(template.New("order").Parse(
	`*Olá, {{.Shop}}! Gostaria de fazer um novo pedido.*

*ID do Pedido:* {{.OrderID}}
*Data e Hora:* {{.Time}}

*Detalhes do Cliente:*
*Nome:* {{.Customer.FullName}}
*Telefone:* {{.Customer.Phone}}
*Endereço de Entrega:* {{.Customer.DeliveryAddress}}

*Itens do Pedido:*
{{range .Lines}}- {{.}}
{{end}}
*Total:* *{{.Total}}*

-------
*Para o Administrador:*
Para gerenciar este pedido, acesse: {{.AdminLink}}
-------

*Aguardo a confirmação do meu pedido. Obrigado!*`))

var preparingTmpl = template.Must(template.New("preparing").Parse(
	`Olá *{{.Name}}*! Seu pedido *#{{.ShortID}}* da {{.Shop}} já está em preparação. Em breve estará pronto!`))

var readyTmpl = template.Must(template.New("ready").Parse(
	`Olá *{{.Name}}*! Seu pedido *#{{.ShortID}}* da {{.Shop}} está pronto!
{{if .Contacts}}
*Por favor, efetue o pagamento no levantamento* via M-Pesa, e-Mola ou em numerário para um dos seguintes contactos:
{{range .Contacts}}
*{{.Number}}* ({{.Name}}){{end}}
{{end}}
Agradecemos a sua preferência!`))

// OrderMessage is the text the customer sends to the shop after submitting
// an order.
func (f *Formatter) OrderMessage(orderID string, at time.Time, c Customer, items []models.CartItem, total float64) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		line := f.printer.Sprintf("%dx %s", it.Quantity, it.Name)
		if it.Variation != nil {
			line += " (" + it.Variation.Name + ")"
		}
		lines = append(lines, line+" ("+f.Money(it.Price)+")")
	}

	local := at.In(f.settings.Location)
	return render(newOrderTmpl, map[string]any{
		"Shop":      f.settings.ShopName,
		"OrderID":   orderID,
		"Time":      local.Format("02/01/2006") + " às " + local.Format("15:04"),
		"Customer":  c,
		"Lines":     lines,
		"Total":     f.Money(total),
		"AdminLink": f.AdminLink(),
	})
}

// StatusMessage is the notification for a customer whose order moved to
// status. Pending has no notification.
func (f *Formatter) StatusMessage(o models.Order, status models.OrderStatus) (string, bool) {
	data := map[string]any{
		"Name":     o.CustomerName,
		"ShortID":  o.ShortID(),
		"Shop":     f.settings.ShopName,
		"Contacts": f.settings.PaymentContacts,
	}
	switch status {
	case models.StatusPreparing:
		return render(preparingTmpl, data), true
	case models.StatusReady:
		return render(readyTmpl, data), true
	}
	return "", false
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}

// Greeting picks the time-of-day salutation shown on the admin board.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Bom dia"
	case h < 18:
		return "Boa tarde"
	}
	return "Boa noite"
}
