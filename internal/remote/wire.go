package remote

import (
	"encoding/json"
	"time"

	"gtech/internal/domain"
)

// The backend is document-store shaped: ids arrive as "_id", the user email
// as "mail", and list endpoints sometimes wrap their payload.

type wireUser struct {
	ID    string `json:"id"`
	OID   string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Mail  string `json:"mail"`
	Phone string `json:"phone"`
}

func (w wireUser) domain() domain.User {
	return domain.User{ID: first(w.ID, w.OID), Email: first(w.Email, w.Mail), Name: w.Name, Phone: w.Phone}
}

type authResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
	// some deployments return the user fields at the top level
	wireUser
}

func (a authResponse) user() domain.User {
	if u := a.User.domain(); u.ID != "" || u.Email != "" {
		return u
	}
	return a.wireUser.domain()
}

type wireProduct struct {
	domain.Product
	OID string `json:"_id"`
}

func (w wireProduct) domain() domain.Product {
	p := w.Product
	p.ID = first(p.ID, w.OID)
	return p
}

// productList accepts both `[...]` and `{"products": [...]}`.
type productList []wireProduct

func (l *productList) UnmarshalJSON(b []byte) error {
	var arr []wireProduct
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var obj struct {
		Products []wireProduct `json:"products"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*l = obj.Products
	return nil
}

type wireOrder struct {
	domain.Order
	OID string `json:"_id"`
}

func (w wireOrder) domain() domain.Order {
	o := w.Order
	o.ID = first(o.ID, w.OID)
	return o
}

// orderEnvelope accepts a bare order or `{"order": {...}}`.
type orderEnvelope struct {
	wireOrder
}

func (e *orderEnvelope) UnmarshalJSON(b []byte) error {
	var obj struct {
		Order *wireOrder `json:"order"`
	}
	if err := json.Unmarshal(b, &obj); err == nil && obj.Order != nil {
		e.wireOrder = *obj.Order
		return nil
	}
	return json.Unmarshal(b, &e.wireOrder)
}

type newOrderRequest struct {
	UserID            string                 `json:"userId"`
	UserName          string                 `json:"userName"`
	UserEmail         string                 `json:"userEmail"`
	UserPhone         string                 `json:"userPhone"`
	ProductID         string                 `json:"productId"`
	ProductName       string                 `json:"productName"`
	ProductPrice      int64                  `json:"productPrice"`
	Quantity          int64                  `json:"quantity"`
	TotalAmount       int64                  `json:"totalAmount"`
	Status            domain.OrderStatus     `json:"status"`
	Address           domain.Address         `json:"address"`
	PaymentID         string                 `json:"paymentId,omitempty"`
	TrackingHistory   []domain.TrackingEvent `json:"trackingHistory,omitempty"`
	EstimatedDelivery *time.Time             `json:"estimatedDelivery,omitempty"`
}

type cancelRequest struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

type wireCartItem struct {
	ProductID string `json:"productId"`
	Product   string `json:"product"`
	Quantity  int64  `json:"quantity"`
}

// cartResponse accepts `[...]` or `{"items": [...]}`.
type cartResponse []wireCartItem

func (c *cartResponse) UnmarshalJSON(b []byte) error {
	var arr []wireCartItem
	if err := json.Unmarshal(b, &arr); err == nil {
		*c = arr
		return nil
	}
	var obj struct {
		Items []wireCartItem `json:"items"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*c = obj.Items
	return nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
