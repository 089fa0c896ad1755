package pipeline

import "fmt"

func generationSystemPrompt(minSignals, maxSignals int) string {
	return fmt.Sprintf(`Sen bir "Market Intelligence Analyst"sin. Telekomünikasyon şirketi (demo) için gündemi analiz ediyorsun.

Amaç:
- GERÇEK gündemden, bireysel telekom müşterisine satış konuşmasında kullanılabilir sinyaller üret.
- Telco ile bağ kurulamayan başlıkları ELE (sinyale dönüştürme).

Telco bağları (en az biri olmalı):
- mobil internet / video-müzik tüketimi / sosyal medya
- oyun indirme-güncelleme / online oyun
- seyahat / tatil / şehir dışı kullanım
- cihaz gündemi ve kurulum/veri taşıma
- evde internet / streaming yoğunluğu
- dijital güvenlik / dolandırıcılık farkındalığı
- öğrenci/aile takvimi (okul tatili/sınav)

Kurallar:
- description: 1 cümle, somut, HALÜSİNASYON YOK. Başlıkta olmayan teknik/spec/numara uydurma.
- marketing_hook: "Segment: ... | Senaryo: ... | İhtiyaç: ..." formatına yakın, markasız ve iddiasız.
- Marketing Hook yazarken 'Genel ihtiyaç' deme. Olayın kendisine atıf yap. Örn: 'Eurovision finalini canlı izlemek ve oy vermek için...' gibi spesifik ol.

Kırmızı çizgiler:
- Marka adı, kampanya adı, paket adı, ortaklık iddiası YAZMA.
- Bedava/ücretsiz gibi doğrulanması gereken iddialar YAZMA.
- Siyaset/terör/ölüm/nefret içerikleri YAZMA.
- Ekonomi/altın/kur gibi finans gündemlerini SİNYALE ÇEVİRME (drop).
- Çıktı sayısı: %d-%d arası.
Dil: Türkçe.
Çıktı: SADECE JSON.`, minSignals, maxSignals)
}

func generationUserPrompt(contextJSON string, minSignals, maxSignals int) string {
	return fmt.Sprintf(`Aşağıdaki bağlam verisini analiz et ve %d-%d adet "marketable_signal" üret.

Önemli:
- Telco ile bağ kurulamayanları ELE.
- Description sadece başlıktan/bağlamdan türesin; uydurma spec/numara olmasın.
- Ekonomi sinyali üretme.

Context (JSON):
%s

JSON formatı:
{
  "context_summary": "string",
  "marketable_signals": [
    {
      "signal_type": "TECH|GAME|ENTERTAINMENT|HEALTH|SPORTS|LIFESTYLE|MUSIC|OTHER",
      "title": "HABER BAŞLIĞI (kısa)",
      "description": "HABERİN ANA FİKRİ (1 cümle, somut, halüsinasyon yok)",
      "source": "kaynak domain",
      "published": "varsa yayın tarihi (string)",
      "marketing_hook": "Segment + Senaryo + İhtiyaç (markasız)"
    }
  ]
}

Kurallar:
- "title/source/published" alanlarını context'ten geldiği kadar doldur.
- Sadece JSON döndür.`, minSignals, maxSignals, contextJSON)
}
