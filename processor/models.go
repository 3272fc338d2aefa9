package processor

type Buyer struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	Locality   string `json:"locality,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Notify     bool   `json:"notify,omitempty"`
}

type Invoice struct {
	ID                string  `json:"id,omitempty"`
	Token             string  `json:"token,omitempty"`
	URL               string  `json:"url,omitempty"`
	Status            string  `json:"status,omitempty"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	OrderID           string  `json:"orderId,omitempty"`
	ItemDesc          string  `json:"itemDesc,omitempty"`
	NotificationEmail string  `json:"notificationEmail,omitempty"`
	NotificationURL   string  `json:"notificationURL,omitempty"`
	ExpirationTime    int64   `json:"expirationTime,omitempty"`
	Buyer             *Buyer  `json:"buyer,omitempty"`
}

type Refund struct {
	ID                 string  `json:"id,omitempty"`
	GUID               string  `json:"guid,omitempty"`
	Token              string  `json:"token,omitempty"`
	InvoiceID          string  `json:"invoiceId,omitempty"`
	Invoice            string  `json:"invoice,omitempty"`
	Amount             float64 `json:"amount"`
	Currency           string  `json:"currency,omitempty"`
	Status             string  `json:"status,omitempty"`
	Preview            bool    `json:"preview,omitempty"`
	Immediate          bool    `json:"immediate,omitempty"`
	BuyerPaysRefundFee bool    `json:"buyerPaysRefundFee,omitempty"`
	NotificationURL    string  `json:"notificationURL,omitempty"`
	RequestDate        string  `json:"requestDate,omitempty"`
}

type Payout struct {
	ID              string  `json:"id,omitempty"`
	Token           string  `json:"token,omitempty"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	LedgerCurrency  string  `json:"ledgerCurrency"`
	RecipientID     string  `json:"recipientId,omitempty"`
	NotificationURL string  `json:"notificationURL,omitempty"`
	Reference       string  `json:"reference,omitempty"`
	Status          string  `json:"status,omitempty"`
	RequestDate     string  `json:"requestDate,omitempty"`
}

type PayoutRecipient struct {
	ID              string `json:"id,omitempty"`
	Email           string `json:"email"`
	Label           string `json:"label,omitempty"`
	NotificationURL string `json:"notificationURL,omitempty"`
	Status          string `json:"status,omitempty"`
	ShopperID       string `json:"shopperId,omitempty"`
	Token           string `json:"token,omitempty"`
}

type PayoutRecipients struct {
	Token      string            `json:"token,omitempty"`
	Recipients []PayoutRecipient `json:"recipients"`
}
