package memory

import "github.com/farmafacil/ordering/internal/catalog/domain"

const productImagePath = "/Productos"

// Fixtures is the demo catalog. Prices are euro cents.
func Fixtures() []domain.Product {
	return []domain.Product{
		{
			ID:          1,
			Name:        "Arkobiotics Íntima 20 cápsulas",
			Description: "Probiótico para el bienestar íntimo femenino. 20 cápsulas",
			PriceCents:  1695,
			Stock:       45,
			Category:    "probioticos",
			ImageURL:    productImagePath + "/arkobiotics-intima-20-capsulas.jpg",
		},
		{
			ID:          2,
			Name:        "Arkolevura 50 cápsulas",
			Description: "Levadura de cerveza viva para el equilibrio intestinal. 50 cápsulas",
			PriceCents:  1250,
			Stock:       62,
			Category:    "probioticos",
			ImageURL:    productImagePath + "/arkolevura-50-capsulas.jpg",
		},
		{
			ID:                 3,
			Name:               "Arkopharma Arkobiotics Vitaminas y Defensas",
			Description:        "Probióticos con vitaminas para reforzar las defensas. 7 unidosis",
			PriceCents:         995,
			OriginalPriceCents: 1195,
			DiscountPercent:    15,
			Stock:              28,
			Category:           "probioticos",
			ImageURL:           productImagePath + "/arkopharma-arkobiotics-vitaminas-y-defensas-7-unidosis.jpg",
		},
		{
			ID:                 4,
			Name:               "Collvital Probiotic 30 cápsulas",
			Description:        "Colágeno con probióticos para piel y articulaciones. 30 cápsulas",
			PriceCents:         2495,
			OriginalPriceCents: 2995,
			DiscountPercent:    15,
			Stock:              35,
			Category:           "probioticos",
			ImageURL:           productImagePath + "/collvital-probiotic-30-capsulas.jpg",
		},
		{
			ID:          5,
			Name:        "Eucerin Aquaphor SOS Regenerador Labial 10ml",
			Description: "Bálsamo labial regenerador intensivo para labios secos y agrietados",
			PriceCents:  895,
			Stock:       78,
			Category:    "dermocosmética",
			ImageURL:    productImagePath + "/eucerin-aquaphor-sos-regenerador-labial-10-ml.jpg",
		},
		{
			ID:          6,
			Name:        "Megalevure 10 sticks",
			Description: "Probiótico en sticks para la flora intestinal. 10 unidades",
			PriceCents:  750,
			Stock:       42,
			Category:    "probioticos",
			ImageURL:    productImagePath + "/megalevure-10-sticks.jpg",
		},
		{
			ID:          7,
			Name:        "Paracetamol 1g 40 comprimidos",
			Description: "Analgésico y antipirético para el dolor y la fiebre",
			PriceCents:  295,
			Stock:       120,
			Category:    "dolor",
			ImageURL:    productImagePath + "/default.svg",
		},
	}
}
