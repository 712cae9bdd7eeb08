package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	// Catalog
	&Category{},
	&Product{},
	// Ledger
	&Sale{},
	&SaleSaga{},
	&SaleSagaLog{},
}
