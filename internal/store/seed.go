package store

import (
	"context"
	"fmt"
)

// SeedDemo loads the demo CRM base and product catalog. Rows are fixed and
// idempotent: reseeding updates in place instead of duplicating. One customer
// intentionally keeps the unprocessed persona marker so the sales batch
// filter stays observable in demos.
func (s *Store) SeedDemo(ctx context.Context) (customers, products int, err error) {
	for _, customer := range demoCustomers() {
		if _, upsertErr := s.UpsertCustomer(ctx, customer); upsertErr != nil {
			return customers, products, fmt.Errorf("seed customer %s: %w", customer.MSISDN, upsertErr)
		}
		customers++
	}
	for _, product := range demoProducts() {
		if _, upsertErr := s.UpsertProduct(ctx, product); upsertErr != nil {
			return customers, products, fmt.Errorf("seed product %s: %w", product.Code, upsertErr)
		}
		products++
	}
	return customers, products, nil
}

func demoCustomers() []*Customer {
	return []*Customer{
		{
			MSISDN:           "5421000001",
			Name:             "Kerem Yılmaz",
			Age:              27,
			City:             "İstanbul",
			TariffSegment:    "Red",
			SubscriptionType: "Postpaid",
			DeviceModel:      "iPhone 15 Pro Max",
			PersonaLabel:     "[Plaza Çalışanı Gamer] Akşamları yoğun mobil oyun trafiği, hafta sonu yayın izliyor.",
			ChurnRisk:        35,
			Interests:        []string{"Oyun", "Teknoloji", "Dizi/Film"},
			CurrentIntent:    "Oyun paketi fiyatlarına bakıyor",
			RemainingDataGB:  4.5,
			BillStatus:       "OK",
		},
		{
			MSISDN:           "5321000002",
			Name:             "Elif Kaya",
			Age:              34,
			City:             "Ankara",
			TariffSegment:    "Red",
			SubscriptionType: "Postpaid",
			DeviceModel:      "Samsung Galaxy S24 Ultra",
			PersonaLabel:     "[Dizi Maratoncusu Profesyonel] Hafta sonları uzun video oturumları, kotası hep sınırda.",
			ChurnRisk:        20,
			Interests:        []string{"Dizi/Film", "Müzik", "Seyahat"},
			CurrentIntent:    "Tarife yükseltme değerlendiriyor",
			RemainingDataGB:  12,
			BillStatus:       "OK",
		},
		{
			MSISDN:           "5551000003",
			Name:             "Arda Demir",
			Age:              21,
			City:             "İzmir",
			TariffSegment:    "FreeZone",
			SubscriptionType: "Postpaid",
			DeviceModel:      "Xiaomi Redmi Note 13 Pro",
			PersonaLabel:     "[Tasarruflu Öğrenci] Fiyat duyarlı, sosyal medya ve oyun ağırlıklı kullanım.",
			ChurnRisk:        55,
			Interests:        []string{"Oyun", "Sosyal Medya", "Müzik"},
			CurrentIntent:    "Ek paket fiyatı karşılaştırıyor",
			RemainingDataGB:  1.2,
			BillStatus:       "OK",
		},
		{
			MSISDN:           "5441000004",
			Name:             "Ayşe Şahin",
			Age:              45,
			City:             "Bursa",
			TariffSegment:    "Uyumlu",
			SubscriptionType: "Postpaid",
			DeviceModel:      "Samsung Galaxy A55",
			PersonaLabel:     "[Aile Yöneticisi] Ev interneti ve aile hatlarını tek faturada topluyor, eğitim dönemine duyarlı.",
			ChurnRisk:        15,
			Interests:        []string{"Aile", "Eğitim", "Alışveriş"},
			CurrentIntent:    "Ev interneti hız yükseltme",
			RemainingDataGB:  8,
			BillStatus:       "OK",
		},
		{
			MSISDN:           "5491000005",
			Name:             "Mehmet Öztürk",
			Age:              58,
			City:             "Trabzon",
			TariffSegment:    "Uyumlu",
			SubscriptionType: "Postpaid",
			DeviceModel:      "iPhone 11",
			PersonaLabel:     "[Emekli Teknoloji Kurdu] Haber takibi ve sık seyahat, yurt dışı kullanımı soruyor.",
			ChurnRisk:        10,
			Interests:        []string{"Haber", "Seyahat"},
			CurrentIntent:    "Yurt dışı paketi soruşturuyor",
			RemainingDataGB:  6.4,
			BillStatus:       "OK",
		},
		{
			MSISDN:           "5421000006",
			Name:             "Selin Arslan",
			Age:              29,
			City:             "İstanbul",
			TariffSegment:    "Red",
			SubscriptionType: "Postpaid",
			DeviceModel:      "iPhone 14",
			PersonaLabel:     "[Festival Gezgini Müziksever] Spotify listeleri ve konser gündemini yakından izliyor.",
			ChurnRisk:        40,
			Interests:        []string{"Müzik", "Konser", "Seyahat"},
			CurrentIntent:    "Müzik paketi arayışında",
			RemainingDataGB:  2.8,
			BillStatus:       "Overdue",
		},
		{
			MSISDN:           "5321000007",
			Name:             "Burak Doğan",
			Age:              24,
			City:             "Eskişehir",
			TariffSegment:    "Kolay Paket",
			SubscriptionType: "Prepaid",
			DeviceModel:      "Samsung Galaxy S24 FE",
			PersonaLabel:     "[Gece Kuşu Yayıncı] Gece saatlerinde canlı yayın ve video tüketimi yoğun.",
			ChurnRisk:        60,
			Interests:        []string{"Oyun", "Dizi/Film"},
			CurrentIntent:    "Haftalık ek paket alıyor",
			RemainingDataGB:  0.8,
			BillStatus:       "TL: 45",
		},
		{
			// Persona job has not touched this row yet; sales batches skip it.
			MSISDN:           "5551000008",
			Name:             "Zeynep Çelik",
			Age:              31,
			City:             "Antalya",
			TariffSegment:    "Red",
			SubscriptionType: "Postpaid",
			DeviceModel:      "iPhone 15",
			PersonaLabel:     PersonaUnprocessed,
			ChurnRisk:        0,
			CurrentIntent:    "Bilinmiyor",
			RemainingDataGB:  20,
			BillStatus:       "OK",
		},
	}
}

func demoProducts() []*Product {
	return []*Product{
		{
			Code: "TRF-0001", Name: "Red 20GB", Category: "Tariff", Price: 520, IsActive: true,
			Specs: map[string]any{"segment": "Red", "subscription_type": "Postpaid", "channel": "Store", "contract_months": 12},
		},
		{
			Code: "TRF-0002", Name: "Red 40GB", Category: "Tariff", Price: 740, IsActive: true,
			Specs: map[string]any{"segment": "Red", "subscription_type": "Postpaid", "channel": "Store", "contract_months": 12},
		},
		{
			Code: "TRF-0003", Name: "Red Sınırsız Video 60GB", Category: "Tariff", Price: 890, IsActive: true,
			Specs: map[string]any{"segment": "Red", "subscription_type": "Postpaid", "channel": "Online", "contract_months": 12, "perks": []string{"Sınırsız video"}},
		},
		{
			Code: "TRF-0004", Name: "FreeZone Gamer 30GB", Category: "Tariff", Price: 430, IsActive: true,
			Specs: map[string]any{"segment": "FreeZone", "subscription_type": "Postpaid", "channel": "Store", "contract_months": 12, "perks": []string{"FreeZone ayrıcalıkları"}},
		},
		{
			Code: "TRF-0005", Name: "Genç Bütçe Dostu 32GB Paketi", Category: "Tariff", Price: 399, IsActive: true,
			Specs: map[string]any{"segment": "FreeZone", "subscription_type": "Postpaid", "channel": "Online", "contract_months": 12},
		},
		{
			Code: "PP-0006", Name: "Kolay Paket 20GB", Category: "Prepaid", Price: 320, IsActive: true,
			Specs: map[string]any{"segment": "Prepaid", "subscription_type": "Prepaid", "channel": "Yanımda App", "validity": "Monthly"},
		},
		{
			Code: "PP-0007", Name: "Haftalık 5GB", Category: "Prepaid", Price: 99, IsActive: true,
			Specs: map[string]any{"segment": "Prepaid", "subscription_type": "Prepaid", "channel": "SMS", "validity": "Weekly"},
		},
		{
			Code: "ADD-0008", Name: "Sınırsız Gaming Pass", Category: "Addon", Price: 129, IsActive: true,
			Specs: map[string]any{"type": "Pass", "quota": "Unlimited", "validity": "Monthly", "channel": "Yanımda App"},
		},
		{
			Code: "ADD-0009", Name: "Sınırsız Video Pass", Category: "Addon", Price: 129, IsActive: true,
			Specs: map[string]any{"type": "Pass", "quota": "Unlimited", "validity": "Monthly", "channel": "Yanımda App"},
		},
		{
			Code: "ADD-0010", Name: "Sınırsız Müzik Pass", Category: "Addon", Price: 129, IsActive: true,
			Specs: map[string]any{"type": "Pass", "quota": "Unlimited", "validity": "Monthly", "channel": "Yanımda App"},
		},
		{
			Code: "ADD-0011", Name: "Günlük Sosyal Pass", Category: "Addon", Price: 29, IsActive: true,
			Specs: map[string]any{"type": "Pass", "quota": "Unlimited", "validity": "24 Hours", "channel": "Yanımda App"},
		},
		{
			Code: "ADD-0012", Name: "Ek 10GB", Category: "Addon", Price: 129, IsActive: true,
			Specs: map[string]any{"type": "TopUp", "channel": "Yanımda App"},
		},
		{
			Code: "HOME-0013", Name: "Evde Fiber 200", Category: "HomeInternet", Price: 799, IsActive: true,
			Specs: map[string]any{"segment": "Home", "contract_months": 12, "speed_mbps": 200, "includes": []string{"Modem", "Kurulum"}},
		},
		{
			Code: "HOME-0014", Name: "Evde Fiber 1000", Category: "HomeInternet", Price: 1149, IsActive: true,
			Specs: map[string]any{"segment": "Home", "contract_months": 12, "speed_mbps": 1000, "includes": []string{"Modem", "Kurulum"}},
		},
		{
			Code: "HOME-0015", Name: "5G RedBox Sınırsız", Category: "HomeInternet", Price: 799, IsActive: true,
			Specs: map[string]any{"segment": "RedBox", "type": "WirelessHomeInternet", "contract_months": 12},
		},
		{
			Code: "ROAM-0016", Name: "Pasaport Avrupa (Günlük)", Category: "Roaming", Price: 190, IsActive: true,
			Specs: map[string]any{"segment": "Roaming", "validity": "Daily", "eligible": map[string]any{"requires_identity_verification": true}},
		},
		{
			Code: "ROAM-0017", Name: "Her Şey Dahil Pasaport", Category: "Roaming", Price: 299, IsActive: true,
			Specs: map[string]any{"segment": "Roaming", "validity": "Weekly", "eligible": map[string]any{"requires_identity_verification": true}},
		},
		{
			Code: "DEV-0018", Name: "Samsung Galaxy S24 256GB", Category: "Device", Price: 74000, IsActive: true,
			Specs: map[string]any{"brand": "Samsung", "storage": "256GB", "payment": "Faturaya Ek", "installments": 12, "eligible": map[string]any{"requires_no_overdue_bill": true}},
		},
	}
}
