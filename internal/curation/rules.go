package curation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"pulse/internal/config"
	"pulse/internal/textutil"
)

// Intent labels form a closed set; DetectIntent never returns anything else.
const (
	IntentTravel        = "travel"
	IntentEntertainment = "entertainment"
	IntentSports        = "sports"
	IntentGaming        = "gaming"
	IntentDevice        = "device"
	IntentSecurity      = "security"
	IntentEducation     = "education"
	IntentMusic         = "music"
	IntentOther         = "other"
)

const lowValueSourcePenalty = -2

// chartRegionTR and chartRegionGlobal identify the home-locale and global
// variants of chart feeds by URL path segment.
const (
	chartRegionTR     = "/tr/"
	chartRegionGlobal = "/global/"
)

type rule struct {
	pattern *regexp.Regexp
	reason  string
}

type intentRule struct {
	pattern *regexp.Regexp
	intent  string
	weight  int
}

// wordPattern compiles a lowercase alternation so every branch matches on
// Unicode word boundaries. Matching happens against lowercased text, which
// keeps Turkish dotted/dotless i handling consistent.
func wordPattern(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:` + alternation + `)(?:[^\p{L}\p{N}]|$)`)
}

// phrasePattern compiles a literal phrase for case-insensitive whole-word
// removal. The boundary characters are captured so replacement can keep them.
func phrasePattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(phrase) + `([^\p{L}\p{N}]|$)`)
}

func defaultSafetyRules() []rule {
	return []rule{
		{wordPattern(`seçim|siyaset|parti|cumhurbaşkan|bakan|meclis`), "politics"},
		{wordPattern(`terör|bomb(a|alı)|patlama|saldırı|çatışma`), "terror/violence"},
		{wordPattern(`kaza|yangın|çökme|deprem|sel|facia`), "disaster/accident"},
		{wordPattern(`ölüm|öldü|cenaze|cinayet|intihar`), "death/crime"},
		{wordPattern(`erotik|18`), "adult"},
		{wordPattern(`kazanın|bedava|ücretsiz para|kolay para`), "spam/scam"},
	}
}

func defaultDropRules() []rule {
	return []rule{
		{wordPattern(`hastane|ameliyat|ilaç|reçete|burun spreyi|grip|öksürük|bağımlılık`), "health-low-relevance"},
		{wordPattern(`değerleme|yatırım turu|yatırımcı|fon|girişim sermayesi|ser(i|ı)e\s?[abc]|ipo|halka arz`), "startup-vc"},
		{wordPattern(`hisse|borsa|kripto|bitcoin|altcoin|airdrop|forex`), "finance-trading"},
		{wordPattern(`ihale|belediye|valilik|kaymakamlık`), "local-admin"},
		{wordPattern(`wef|dünya ekonomi|küresel ekonomi|enflasyon|kur|altın fiyat`), "economy-drop"},
	}
}

func defaultIntentRules() []intentRule {
	return []intentRule{
		{wordPattern(`tatil|bayram|arefe|uzun hafta sonu|seyahat|uçuş|uçak|otobüs|otel|vize|pasaport`), IntentTravel, 6},
		{wordPattern(`dizi|film|sezon|final|fragman`), IntentEntertainment, 5},
		{wordPattern(`netflix|disney|prime|blu\s?tv|gain|exxen`), IntentEntertainment, 6},
		{wordPattern(`konser|festival|bilet|turne`), IntentEntertainment, 5},
		{wordPattern(`derbi|maç|lig|şampiyonlar ligi|uefa|transfer|milli maç`), IntentSports, 6},
		{wordPattern(`oyun|steam|playstation|ps5|xbox|nintendo|dlc|güncelleme|beta`), IntentGaming, 6},
		{wordPattern(`iphone|samsung|galaxy|xiaomi|redmi|oppo|huawei|pixel|android|ios`), IntentDevice, 6},
		{wordPattern(`dolandırıcılık|phishing|oltalama|siber|veri sızıntısı|hack`), IntentSecurity, 7},
		{wordPattern(`yarıyıl|15 tatil|ara tatil|okul|meb|yks|lgs|vize final|sınav`), IntentEducation, 6},
		{wordPattern(`spotify|top\s?50|top\s?100|top\s?200|viral`), IntentMusic, 7},
		{wordPattern(`apple\s?music|youtube\s?music|deezer`), IntentMusic, 5},
	}
}

func defaultLowValueSources() []string {
	return []string{
		"producthunt.com",
		"rsshub.app",
		"trendsmap.com",
		"hitc.com",
		"socialmediatoday.com",
		"twitch.tv",
	}
}

func defaultBlockPhrases() []string {
	return []string{
		"vodafone",
		"vodafone pay",
		"vodafone business",
		"ortaklık",
		"partner",
		"iş birliği",
		"collab",
		"collaboration",
		"bedava",
		"ücretsiz",
		"free",
		"promo",
		"promosyon",
		"kampanya",
	}
}

func defaultHookMarkers() []string {
	return []string{
		"internet",
		"bağlantı",
		"mobil",
		"ev interneti",
		"izleme",
		"müzik",
		"oyun",
		"gecikme",
		"güven",
		"dolandır",
		"stream",
		"online",
		"wi-fi",
	}
}

func defaultHooks() map[string]string {
	return map[string]string{
		IntentTravel:        "Segment: Seyahat edenler | Senaryo: Tatil/ziyaret planı | İhtiyaç: yolda ve şehir dışında kesintisiz bağlantı ve internet kullanımı",
		IntentEntertainment: "Segment: Dizi/film izleyenler | Senaryo: Yeni içerikler/izleme maratonu | İhtiyaç: akıcı izleme için stabil bağlantı ve yeterli internet",
		IntentSports:        "Segment: Spor takipçileri | Senaryo: Derbi/maç haftası ve sosyal medya etkileşimi | İhtiyaç: canlı takip için hızlı ve stabil bağlantı",
		IntentGaming:        "Segment: Gamer'lar | Senaryo: Oyun indirme/güncelleme ve online maç | İhtiyaç: düşük gecikme ve yüksek hız",
		IntentDevice:        "Segment: Cihaz yenileyenler | Senaryo: Yeni telefon gündemi/taşıma-kurulum | İhtiyaç: yoğun kullanımda güçlü bağlantı",
		IntentSecurity:      "Segment: Dijital güvenlik hassasiyeti | Senaryo: Dolandırıcılık uyarıları | İhtiyaç: güvenli internet ve hesap güvenliği farkındalığı",
		IntentEducation:     "Segment: Öğrenci/aile | Senaryo: Tatil/sınav/online süreçler | İhtiyaç: evde ve dışarıda kesintisiz internet",
		IntentMusic:         "Segment: Spotify/müzik dinleyenler | Senaryo: Top listeler/viral şarkılar | İhtiyaç: kesintisiz müzik için stabil mobil internet",
		IntentOther:         "Segment: Genel | Senaryo: Günlük dijital kullanım | İhtiyaç: bağlantı, içerik tüketimi ve dijital güvenlik",
	}
}

// Rules bundles the compiled policy tables driving safety filtering, intent
// scoring, ranking, and sanitization. A Rules value is immutable after
// construction and safe to share.
type Rules struct {
	safety          []rule
	hardDrop        []rule
	intents         []intentRule
	lowValueSources map[string]struct{}
	blockPhrases    []*regexp.Regexp
	hookMarkers     []string
	hooks           map[string]string
	chartHost       string
	minHookLength   int
}

// NewRules compiles the policy tables, applying configuration overrides
// where present. Empty override lists keep the defaults.
func NewRules(cfg *config.Config) (*Rules, error) {
	r := &Rules{
		safety:        defaultSafetyRules(),
		hardDrop:      defaultDropRules(),
		intents:       defaultIntentRules(),
		hookMarkers:   defaultHookMarkers(),
		hooks:         defaultHooks(),
		chartHost:     cfg.Feeds.ChartHost,
		minHookLength: cfg.Curation.MinHookLength,
	}

	if len(cfg.Curation.SafetyRules) > 0 {
		compiled, err := compileRules("curation.safety_rule", cfg.Curation.SafetyRules)
		if err != nil {
			return nil, err
		}
		r.safety = compiled
	}
	if len(cfg.Curation.DropRules) > 0 {
		compiled, err := compileRules("curation.drop_rule", cfg.Curation.DropRules)
		if err != nil {
			return nil, err
		}
		r.hardDrop = compiled
	}
	if len(cfg.Curation.IntentRules) > 0 {
		compiled := make([]intentRule, 0, len(cfg.Curation.IntentRules))
		for i, override := range cfg.Curation.IntentRules {
			pattern, err := compileWordPattern(override.Pattern)
			if err != nil {
				return nil, fmt.Errorf("curation.intent_rule[%d]: %w", i, err)
			}
			compiled = append(compiled, intentRule{pattern: pattern, intent: override.Intent, weight: override.Weight})
		}
		r.intents = compiled
	}

	sources := cfg.Curation.LowValueSources
	if len(sources) == 0 {
		sources = defaultLowValueSources()
	}
	r.lowValueSources = make(map[string]struct{}, len(sources))
	for _, source := range sources {
		r.lowValueSources[strings.ToLower(strings.TrimSpace(source))] = struct{}{}
	}

	phrases := cfg.Curation.BlockPhrases
	if len(phrases) == 0 {
		phrases = defaultBlockPhrases()
	}
	r.blockPhrases = make([]*regexp.Regexp, 0, len(phrases))
	for _, phrase := range phrases {
		r.blockPhrases = append(r.blockPhrases, phrasePattern(strings.ToLower(phrase)))
	}

	if len(cfg.Curation.HookMarkers) > 0 {
		r.hookMarkers = append([]string(nil), cfg.Curation.HookMarkers...)
	}
	for intent, hook := range cfg.Curation.Hooks {
		r.hooks[strings.ToLower(strings.TrimSpace(intent))] = hook
	}
	if _, ok := r.hooks[IntentOther]; !ok {
		r.hooks[IntentOther] = defaultHooks()[IntentOther]
	}

	return r, nil
}

func compileRules(section string, overrides []config.Rule) ([]rule, error) {
	compiled := make([]rule, 0, len(overrides))
	for i, override := range overrides {
		pattern, err := compileWordPattern(override.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		compiled = append(compiled, rule{pattern: pattern, reason: override.Reason})
	}
	return compiled, nil
}

func compileWordPattern(alternation string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?:^|[^\p{L}\p{N}])(?:` + strings.ToLower(alternation) + `)(?:[^\p{L}\p{N}]|$)`)
}

// HardDrop returns the first matching drop reason for combined item text.
func (r *Rules) HardDrop(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, candidate := range r.hardDrop {
		if candidate.pattern.MatchString(lowered) {
			return candidate.reason, true
		}
	}
	return "", false
}

// DetectIntent scores text against the weighted intent rules. Every matching
// rule adds its weight; rules weighted >=5 also set the intent, later
// matches overriding earlier ones. Low-value sources carry a flat penalty.
func (r *Rules) DetectIntent(text, source string) (string, int) {
	score := 0
	intent := IntentOther

	if _, ok := r.lowValueSources[strings.ToLower(strings.TrimSpace(source))]; ok {
		score += lowValueSourcePenalty
	}

	lowered := strings.ToLower(text)
	for _, candidate := range r.intents {
		if candidate.pattern.MatchString(lowered) {
			score += candidate.weight
			if candidate.weight >= 5 {
				intent = candidate.intent
			}
		}
	}
	return intent, score
}

// Hook returns the marketing-hook template for an intent, falling back to
// the generic template.
func (r *Rules) Hook(intent string) string {
	if hook, ok := r.hooks[intent]; ok {
		return hook
	}
	return r.hooks[IntentOther]
}

// AcceptableHook reports whether generated hook text can be kept as-is: it
// must mention at least one domain marker and meet the minimum length.
func (r *Rules) AcceptableHook(hook string) bool {
	if utf8.RuneCountInString(hook) < r.minHookLength {
		return false
	}
	lowered := strings.ToLower(hook)
	for _, marker := range r.hookMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// StripPhrases removes every block phrase (whole word, case-insensitive)
// and collapses leftover whitespace. Replacement keeps the boundary
// characters, so adjacent occurrences need another pass; the loop runs to a
// fixpoint.
func (r *Rules) StripPhrases(s string) string {
	for _, pattern := range r.blockPhrases {
		for {
			replaced := pattern.ReplaceAllString(s, "$1$2")
			if replaced == s {
				break
			}
			s = replaced
		}
	}
	return textutil.CollapseSpace(s)
}

// ChartHost returns the configured chart feed host.
func (r *Rules) ChartHost() string {
	return r.chartHost
}
