package domain

// Account identifies an entry in the default chart of accounts.
type Account struct {
	Code string
	Name string
}

// Default chart of accounts. Codes follow the conventional Chilean plan:
// class 1 assets, 2 liabilities, 4 revenue, 5 expenses.
var (
	AccountReceivables  = Account{Code: "1105", Name: "Clientes"}
	AccountVATCredit    = Account{Code: "1107", Name: "IVA Crédito Fiscal"}
	AccountVATCommonUse = Account{Code: "1108", Name: "IVA Uso Común"}
	AccountFixedAssets  = Account{Code: "1201", Name: "Activo Fijo"}
	AccountPayables     = Account{Code: "2101", Name: "Proveedores"}
	AccountVATDebit     = Account{Code: "2106", Name: "IVA Débito Fiscal"}
	AccountRevenue      = Account{Code: "4101", Name: "Ventas"}
	AccountRevenueEx    = Account{Code: "4102", Name: "Ventas Exentas"}
	AccountExpenses     = Account{Code: "5101", Name: "Gastos Generales"}
	AccountExpensesEx   = Account{Code: "5102", Name: "Gastos Exentos"}
)

// Account class prefixes used by period aggregation.
const (
	ClassAsset     = "1"
	ClassLiability = "2"
	ClassRevenue   = "4"
	ClassExpense   = "5"
)

// IsRevenueCode reports whether an account code belongs to the revenue class.
func IsRevenueCode(code string) bool {
	return len(code) > 0 && code[:1] == ClassRevenue
}

// IsExpenseCode reports whether an account code belongs to the expense class.
func IsExpenseCode(code string) bool {
	return len(code) > 0 && code[:1] == ClassExpense
}
