package repo

import (
	"time"

	"produce-market/internal/domain"
)

type UserModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(32)"`
	FullName     string    `gorm:"size:128;not null"`
	Email        string    `gorm:"uniqueIndex;size:191;not null"`
	PhoneNumber  string    `gorm:"size:32;not null"`
	PasswordHash string    `gorm:"size:100;not null"`
	Role         string    `gorm:"size:16;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) toDomain() *domain.User {
	return &domain.User{
		ID: m.ID, FullName: m.FullName, Email: m.Email, PhoneNumber: m.PhoneNumber,
		PasswordHash: m.PasswordHash, Role: domain.Role(m.Role),
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type ProductModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(32)"`
	Name        string    `gorm:"size:191;not null;index:idx_product_owner_name"`
	Price       float64   `gorm:"type:decimal(12,2);not null"`
	Image       string    `gorm:"size:512"`
	Description string    `gorm:"type:text"`
	CreatedBy   string    `gorm:"type:varchar(32);not null;index:idx_product_owner_name"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ProductModel) TableName() string { return "products" }

func (m *ProductModel) toDomain() *domain.Product {
	return &domain.Product{
		ID: m.ID, Name: m.Name, Price: m.Price, Image: m.Image, Description: m.Description,
		CreatedBy: m.CreatedBy, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type OrderModel struct {
	ID        string           `gorm:"primaryKey;type:varchar(32)"`
	BuyerID   string           `gorm:"type:varchar(32);not null;index:idx_order_buyer_created"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address   string           `gorm:"type:text;not null"`
	Status    string           `gorm:"size:16;not null;default:placed"`
	Price     float64          `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt time.Time        `gorm:"autoCreateTime;index:idx_order_buyer_created"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
}

func (OrderModel) TableName() string { return "orders" }

type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"type:varchar(32);not null;index"`
	Position  int    `gorm:"not null"`
	ProductID string `gorm:"type:varchar(32);not null"`
	Quantity  int    `gorm:"not null;default:1"`
}

func (OrderItemModel) TableName() string { return "order_items" }

func (m *OrderModel) toDomain() *domain.Order {
	o := &domain.Order{
		ID: m.ID, BuyerID: m.BuyerID, Address: m.Address, Status: domain.Status(m.Status),
		Price: m.Price, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		Items: make([]domain.LineItem, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, domain.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return o
}

type ContactModel struct {
	ID         string    `gorm:"primaryKey;type:varchar(32)"`
	Name       string    `gorm:"size:128;not null"`
	Email      string    `gorm:"size:191;not null"`
	Subject    string    `gorm:"size:255;not null"`
	Message    string    `gorm:"type:text;not null"`
	SenderRole string    `gorm:"size:16"`
	Status     string    `gorm:"size:16;not null;default:new"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (ContactModel) TableName() string { return "contact_messages" }

func (m *ContactModel) toDomain() *domain.ContactMessage {
	return &domain.ContactMessage{
		ID: m.ID, Name: m.Name, Email: m.Email, Subject: m.Subject, Message: m.Message,
		SenderRole: domain.Role(m.SenderRole), Status: domain.ContactStatus(m.Status), CreatedAt: m.CreatedAt,
	}
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&UserModel{}, &ProductModel{}, &OrderModel{}, &OrderItemModel{}, &ContactModel{}}
}
