package textutil_test

import (
	"strings"
	"testing"

	"pulse/internal/textutil"
)

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Sade başlık", "Sade başlık"},
		{"tags", "<p>Yeni sezon <b>fragmanı</b> yayında</p>", "Yeni sezon fragmanı yayında"},
		{"anchor with attrs", `<a href="https://example.com?id=1">Maç özeti</a> burada`, "Maç özeti burada"},
		{"nbsp entity", "Konser&nbsp;biletleri satışta", "Konser biletleri satışta"},
		{"nested junk", `<div><img src="x.gif"/><span>Oyun güncellemesi</span></div>`, "Oyun güncellemesi"},
		{"whitespace runs", "  çok\n\t fazla   boşluk ", "çok fazla boşluk"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.StripMarkup(tc.in); got != tc.want {
				t.Fatalf("StripMarkup(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := textutil.Truncate("kısa", 10); got != "kısa" {
		t.Fatalf("Truncate under limit = %q", got)
	}
	got := textutil.Truncate(strings.Repeat("ş", 200), 180)
	if runes := len([]rune(got)); runes != 180 {
		t.Fatalf("Truncate length = %d runes, want 180", runes)
	}
	if got := textutil.Truncate("anything", 0); got != "" {
		t.Fatalf("Truncate with zero budget = %q, want empty", got)
	}
}

func TestTruncateDoesNotSplitRunes(t *testing.T) {
	in := "şarkı"
	got := textutil.Truncate(in, 3)
	if got != "şar" {
		t.Fatalf("Truncate(%q, 3) = %q, want %q", in, got, "şar")
	}
	if !strings.HasPrefix(in, got) {
		t.Fatalf("truncated value %q is not a prefix of %q", got, in)
	}
}

func TestClean(t *testing.T) {
	in := "<p>Tatil&nbsp;planı  <em>rehberi</em></p>"
	want := "Tatil planı rehberi"
	if got := textutil.Clean(in, 180); got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}

func TestFoldKey(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"ascii case", "Breaking News", "breaking news"},
		{"trimmed", "  başlık  ", "başlık"},
		{"unicode case", "ŞAMPİYONLAR Ligi", "şampİyonlar ligi"},
		{"turkish uppercase", "Konser biletleri satışa çıktı", "KONSER BİLETLERİ SATIŞA ÇIKTI"},
		{"ascii uppercase", "Konser takvimi", "KONSER TAKVIMI"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if textutil.FoldKey(tc.a) != textutil.FoldKey(tc.b) {
				t.Fatalf("FoldKey(%q) != FoldKey(%q)", tc.a, tc.b)
			}
		})
	}
	if textutil.FoldKey("farklı başlık") == textutil.FoldKey("başka başlık") {
		t.Fatal("distinct titles folded to the same key")
	}
}
