package sale

// SaleStatus represents the aggregate payment status of a sale.
// The persisted values are the legacy Portuguese labels.
type SaleStatus string

const (
	SaleStatusPending       SaleStatus = "pendente"
	SaleStatusPartiallyPaid SaleStatus = "parcialmente_paga"
	SaleStatusPaid          SaleStatus = "paga"
	SaleStatusCancelled     SaleStatus = "cancelada"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusPartiallyPaid, SaleStatusPaid, SaleStatusCancelled:
		return true
	}
	return false
}

// IsSettableDirectly reports whether the status may be written through the
// imperative SetStatus override. parcialmente_paga is only ever derived.
func (s SaleStatus) IsSettableDirectly() bool {
	switch s {
	case SaleStatusPending, SaleStatusPaid, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// ItemPaymentStatus represents the settlement stage of a single sale item.
// It is a pure function of amountPaid versus the item subtotal.
type ItemPaymentStatus string

const (
	ItemPaymentPending ItemPaymentStatus = "pendente"
	ItemPaymentPartial ItemPaymentStatus = "parcial"
	ItemPaymentPaid    ItemPaymentStatus = "pago"
)

// IsValid checks if the status is a valid ItemPaymentStatus
func (s ItemPaymentStatus) IsValid() bool {
	switch s {
	case ItemPaymentPending, ItemPaymentPartial, ItemPaymentPaid:
		return true
	}
	return false
}

// String returns the string representation of ItemPaymentStatus
func (s ItemPaymentStatus) String() string {
	return string(s)
}

// ProductionStatus represents the kitchen fulfillment stage of a sale item,
// independent of its payment state.
type ProductionStatus string

const (
	ProductionPending    ProductionStatus = "pendente"
	ProductionInProgress ProductionStatus = "em_producao"
	ProductionDone       ProductionStatus = "concluido"
	ProductionDelivered  ProductionStatus = "entregue"
)

// IsValid checks if the status is a valid ProductionStatus
func (s ProductionStatus) IsValid() bool {
	switch s {
	case ProductionPending, ProductionInProgress, ProductionDone, ProductionDelivered:
		return true
	}
	return false
}

// String returns the string representation of ProductionStatus
func (s ProductionStatus) String() string {
	return string(s)
}

// rank orders the production stages for downstream-stamp clearing on revert
func (s ProductionStatus) rank() int {
	switch s {
	case ProductionPending:
		return 0
	case ProductionInProgress:
		return 1
	case ProductionDone:
		return 2
	case ProductionDelivered:
		return 3
	}
	return -1
}

// PaymentMethod is one of the four recognized settlement methods
type PaymentMethod string

const (
	MethodMoney  PaymentMethod = "money"
	MethodCredit PaymentMethod = "credit"
	MethodDebit  PaymentMethod = "debit"
	MethodPix    PaymentMethod = "pix"
)

// IsValid checks if the method is one of the recognized methods
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodMoney, MethodCredit, MethodDebit, MethodPix:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Methods lists the recognized payment methods in canonical order
func Methods() []PaymentMethod {
	return []PaymentMethod{MethodMoney, MethodCredit, MethodDebit, MethodPix}
}

// ItemKind tags a sale item as kitchen food or counter beverage.
// Assigned once at item creation by the catalog classifier.
type ItemKind string

const (
	KindFood     ItemKind = "food"
	KindBeverage ItemKind = "beverage"
)

// IsValid checks if the kind is a valid ItemKind
func (k ItemKind) IsValid() bool {
	return k == KindFood || k == KindBeverage
}

// RecomputeSaleStatus derives the aggregate sale status from the payment
// status of every item. This is the single authority for the three-way rule:
// paga iff all items pago; parcialmente_paga iff any payment progress exists
// but not all items are pago; pendente otherwise.
func RecomputeSaleStatus(items []SaleItem) SaleStatus {
	if len(items) == 0 {
		return SaleStatusPending
	}
	allPaid := true
	anyProgress := false
	for i := range items {
		switch items[i].PaymentStatus {
		case ItemPaymentPaid:
			anyProgress = true
		case ItemPaymentPartial:
			anyProgress = true
			allPaid = false
		default:
			allPaid = false
		}
	}
	switch {
	case allPaid:
		return SaleStatusPaid
	case anyProgress:
		return SaleStatusPartiallyPaid
	default:
		return SaleStatusPending
	}
}
