package importer

import (
	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// partyProfile describes the column layout of a party export.
// When TypeCol is empty every row gets DefaultType.
type partyProfile struct {
	Name        string
	NameCol     string
	PhoneCol    string
	EmailCol    string
	TypeCol     string
	DefaultType party.Type
}

func (p partyProfile) requiredCols() []string {
	cols := []string{p.NameCol, p.PhoneCol}
	if p.TypeCol != "" {
		cols = append(cols, p.TypeCol)
	}

	return cols
}

// instrumentProfile describes the column layout of a check or installment export.
type instrumentProfile struct {
	Name      string
	Kind      instrument.Kind
	OwnerCol  string
	PhoneCol  string
	AmountCol string
	DueCol    string
	StatusCol string
}

func (p instrumentProfile) requiredCols() []string {
	return []string{p.OwnerCol, p.AmountCol, p.DueCol}
}

// More specific profiles come first so a generic one does not shadow them.
var partyProfiles = []partyProfile{
	{Name: "parties", NameCol: "name", PhoneCol: "phone", EmailCol: "email", TypeCol: "type"},
	{Name: "parties-ar", NameCol: "الاسم", PhoneCol: "الهاتف", EmailCol: "البريد الإلكتروني", TypeCol: "النوع"},
	{Name: "customers", NameCol: "customer", PhoneCol: "phone", EmailCol: "email", DefaultType: party.TypeCustomer},
	{Name: "suppliers", NameCol: "supplier", PhoneCol: "phone", EmailCol: "email", DefaultType: party.TypeSupplier},
	{Name: "employees", NameCol: "employee", PhoneCol: "phone", EmailCol: "email", DefaultType: party.TypeEmployee},
	{Name: "customers-ar", NameCol: "اسم العميل", PhoneCol: "الهاتف", EmailCol: "البريد الإلكتروني", DefaultType: party.TypeCustomer},
	{Name: "suppliers-ar", NameCol: "اسم المورد", PhoneCol: "الهاتف", EmailCol: "البريد الإلكتروني", DefaultType: party.TypeSupplier},
	{Name: "employees-ar", NameCol: "اسم الموظف", PhoneCol: "الهاتف", EmailCol: "البريد الإلكتروني", DefaultType: party.TypeEmployee},
}

var instrumentProfiles = []instrumentProfile{
	{
		Name:      "checks",
		Kind:      instrument.KindCheck,
		OwnerCol:  "drawer",
		PhoneCol:  "phone",
		AmountCol: "amount",
		DueCol:    "due date",
		StatusCol: "status",
	},
	{
		Name:      "installments",
		Kind:      instrument.KindInstallment,
		OwnerCol:  "customer",
		PhoneCol:  "phone",
		AmountCol: "installment amount",
		DueCol:    "due date",
		StatusCol: "status",
	},
	{
		Name:      "checks-ar",
		Kind:      instrument.KindCheck,
		OwnerCol:  "صاحب الشيك",
		PhoneCol:  "الهاتف",
		AmountCol: "المبلغ",
		DueCol:    "تاريخ الاستحقاق",
		StatusCol: "الحالة",
	},
	{
		Name:      "installments-ar",
		Kind:      instrument.KindInstallment,
		OwnerCol:  "العميل",
		PhoneCol:  "الهاتف",
		AmountCol: "قيمة القسط",
		DueCol:    "تاريخ الاستحقاق",
		StatusCol: "الحالة",
	},
}

// statusWords maps the status labels found in exports to instrument statuses, per kind.
var statusWords = map[instrument.Kind]map[string]instrument.Status{
	instrument.KindCheck: {
		"pending":     instrument.StatusPending,
		"معلق":        instrument.StatusPending,
		"تحت التحصيل": instrument.StatusPending,
		"cashed":      instrument.StatusCashed,
		"collected":   instrument.StatusCashed,
		"محصل":        instrument.StatusCashed,
		"bounced":     instrument.StatusBounced,
		"returned":    instrument.StatusBounced,
		"مرتجع":       instrument.StatusBounced,
	},
	instrument.KindInstallment: {
		"active":    instrument.StatusActive,
		"نشط":       instrument.StatusActive,
		"completed": instrument.StatusCompleted,
		"paid":      instrument.StatusCompleted,
		"مسدد":      instrument.StatusCompleted,
		"overdue":   instrument.StatusOverdue,
		"متأخر":     instrument.StatusOverdue,
		"cancelled": instrument.StatusCancelled,
		"canceled":  instrument.StatusCancelled,
		"ملغي":      instrument.StatusCancelled,
	},
}

var defaultStatus = map[instrument.Kind]instrument.Status{
	instrument.KindCheck:       instrument.StatusPending,
	instrument.KindInstallment: instrument.StatusActive,
}

var typeWords = map[string]party.Type{
	"customer": party.TypeCustomer,
	"عميل":     party.TypeCustomer,
	"supplier": party.TypeSupplier,
	"مورد":     party.TypeSupplier,
	"employee": party.TypeEmployee,
	"موظف":     party.TypeEmployee,
}
