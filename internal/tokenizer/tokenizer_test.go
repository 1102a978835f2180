package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeKeepsVisibleTextInOrder(t *testing.T) {
	html := `<html><head><title>Odds</title><style>.x{}</style></head>
<body>
  <script>var odds = 2.10;</script>
  <div class="match"><span>14:30</span><span>Arsenal</span><span>Chelsea</span></div>
  <div class="odds"><b>2.10</b><b>3.40</b>
  <b>3.60</b></div>
  <!-- 9.99 -->
  <noscript>Please enable JavaScript</noscript>
  <footer>© 2024 Example. Privacy policy</footer>
</body></html>`

	got := Tokenize(html, Options{})
	want := []string{"14:30", "Arsenal", "Chelsea", "2.10", "3.40", "3.60"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens:\n got %q\nwant %q", got, want)
	}
}

func TestTokenizeSplitsMultilineTextNodes(t *testing.T) {
	got := Tokenize("<pre>2.15Bet365\n\n  1.80  \n---</pre>", DefaultOptions())
	want := []string{"2.15Bet365", "1.80", "---"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens: %q", got)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	if got := Tokenize("   ", Options{}); len(got) != 0 {
		t.Fatalf("expected no tokens, got %q", got)
	}
	if got := Tokenize("<div></div>", Options{}); len(got) != 0 {
		t.Fatalf("expected no tokens, got %q", got)
	}
}

func TestLinesDropsLongAndBoilerplate(t *testing.T) {
	long := strings.Repeat("a", DefaultMaxLength+1)
	text := "sre,\n14:30\n" + long + "\nWe use cookies\nhttps://example.com\nReal Madrid\n"
	got := Lines(text, Options{})
	want := []string{"sre,", "14:30", "Real Madrid"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens: %q", got)
	}

	got = Lines("abcdef\nabc", Options{MaxLength: 3, Boilerplate: []string{}})
	if !reflect.DeepEqual(got, []string{"abc"}) {
		t.Fatalf("max length not applied: %q", got)
	}
}
