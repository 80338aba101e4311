package domain

import "time"

// ProductCategory группа каталога
type ProductCategory string

const (
	CategoryNewLaptops  ProductCategory = "New Laptops"
	CategoryUsedLaptops ProductCategory = "Used Laptops"
	CategoryAccessories ProductCategory = "Accessories"
	CategoryNetworking  ProductCategory = "Networking & CCTV"
)

// Categories все категории в порядке отображения
var Categories = []ProductCategory{CategoryNewLaptops, CategoryUsedLaptops, CategoryAccessories, CategoryNetworking}

// ProductCondition состояние товара
type ProductCondition string

const (
	ConditionNew  ProductCondition = "New"
	ConditionUsed ProductCondition = "Used"
)

// Brand производитель
type Brand string

const (
	BrandDell    Brand = "Dell"
	BrandHP      Brand = "HP"
	BrandLenovo  Brand = "Lenovo"
	BrandApple   Brand = "Apple"
	BrandASUS    Brand = "ASUS"
	BrandAcer    Brand = "Acer"
	BrandMSI     Brand = "MSI"
	BrandSamsung Brand = "Samsung"
	BrandOther   Brand = "Other"
)

var Brands = []Brand{BrandDell, BrandHP, BrandLenovo, BrandApple, BrandASUS, BrandAcer, BrandMSI, BrandSamsung, BrandOther}

// City город магазина (Тамилнад)
type City string

const (
	CityChennai         City = "Chennai"
	CityCoimbatore      City = "Coimbatore"
	CityMadurai         City = "Madurai"
	CityTiruchirappalli City = "Tiruchirappalli"
	CitySalem           City = "Salem"
	CityTirunelveli     City = "Tirunelveli"
	CityVellore         City = "Vellore"
	CityErode           City = "Erode"
	CityThanjavur       City = "Thanjavur"
	CityDindigul        City = "Dindigul"
)

var Cities = []City{
	CityChennai, CityCoimbatore, CityMadurai, CityTiruchirappalli, CitySalem,
	CityTirunelveli, CityVellore, CityErode, CityThanjavur, CityDindigul,
}

func (c ProductCategory) Valid() bool  { return contains(Categories, c) }
func (c ProductCondition) Valid() bool { return c == ConditionNew || c == ConditionUsed }
func (b Brand) Valid() bool            { return contains(Brands, b) }
func (c City) Valid() bool             { return contains(Cities, c) }

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// User покупатель. Пароль на клиенте не хранится.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Product товар каталога. Price в целых рупиях.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    ProductCategory  `json:"category"`
	Condition   ProductCondition `json:"condition"`
	Price       int64            `json:"price"`
	Description string           `json:"description"`
	Specs       []string         `json:"specs"`
	Images      []string         `json:"images"`
	Brand       Brand            `json:"brand"`
	Location    City             `json:"location"`
	CreatedAt   time.Time        `json:"createdAt"`
	Featured    bool             `json:"featured,omitempty"`
}

// Address адрес доставки, снимок на момент заказа
type Address struct {
	FullName     string `json:"fullName" validate:"required"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,inphone"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,pincode"`
}

// TrackingEvent запись истории статусов заказа
type TrackingEvent struct {
	Status    OrderStatus `json:"status"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// Order заказ одного товара. Поля пользователя и товара денормализованы.
type Order struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	UserName           string          `json:"userName"`
	UserEmail          string          `json:"userEmail"`
	UserPhone          string          `json:"userPhone"`
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	ProductPrice       int64           `json:"productPrice"`
	Quantity           int64           `json:"quantity"`
	TotalAmount        int64           `json:"totalAmount"`
	Status             OrderStatus     `json:"status"`
	Address            Address         `json:"address"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	PaymentID          string          `json:"paymentId,omitempty"`
	Tracking           []TrackingEvent `json:"trackingHistory,omitempty"`
	EstimatedDelivery  *time.Time      `json:"estimatedDelivery,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CartItem позиция корзины
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// PaymentOrder описание заказа платёжного шлюза для виджета оплаты
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// PaymentConfirmation ответ виджета оплаты при успехе
type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}
