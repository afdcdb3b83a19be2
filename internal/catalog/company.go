package catalog

// Company holds the legal requisites printed on quotation documents.
type Company struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	INN     string `json:"inn"`
	KS      string `json:"ks"`
	RS      string `json:"rs"`
	Bank    string `json:"bank"`
	BIK     string `json:"bik"`
}

// Terms are the static text blocks printed under the quotation table.
type Terms struct {
	Delivery   []string
	Payment    []string
	Additional []string
	Final      []string
}

// DefaultCompany returns the requisites used when company_info.json is absent.
func DefaultCompany() Company {
	return Company{
		Name:    "ИП Брюховецкий Аркадий Александрович",
		Address: "614014, Пермский край, г. Пермь, мр-н. Архиерейка, 49",
		INN:     "590618398032",
		KS:      "30101810745374525104",
		RS:      "40802810901500265084",
		Bank:    "ООО «Банк Точка»",
		BIK:     "044525104",
	}
}

// LoadCompany reads company_info.json, falling back to DefaultCompany.
func (l *Loader) LoadCompany() Company {
	var c Company
	if !l.readOptionalJSON(CompanyFile, &c) || c.Name == "" {
		return DefaultCompany()
	}
	return c
}

// DefaultTerms returns the delivery, payment, warranty and closing blocks.
func DefaultTerms() Terms {
	return Terms{
		Delivery: []string{
			"— Доставка по городу Пермь.",
			"— Доставка до подъезда.",
			"— Подъём оплачивается отдельно.",
		},
		Payment: []string{
			"— Предоплата 50%.",
			"— Возможна безналичная оплата с НДС.",
		},
		Additional: []string{
			"— Гарантия на монтаж — 12 месяцев.",
			"— Изготовление от 3 до 7 рабочих дней.",
		},
		Final: []string{
			"Стоимость является ориентировочной. Окончательная цена рассчитывается после профессионального замера.",
			"Спасибо за обращение! Мы ценим ваше доверие.",
		},
	}
}
