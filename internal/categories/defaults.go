package categories

// DefaultIncome is the stock income catalog. The first entry is the default.
func DefaultIncome() []string {
	return []string{"Ofrendas", "Donaciones", "Actividades", "Ventas", "Otros"}
}

// DefaultExpense is the stock expense catalog. The first entry is the default.
func DefaultExpense() []string {
	return []string{
		"Actividades", "Material", "Transporte", "Alimentos",
		"Equipos", "Donaciones", "Mantenimiento", "Otros",
	}
}
