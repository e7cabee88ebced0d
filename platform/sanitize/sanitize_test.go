package sanitize

import "testing"

func TestTextStripsTags(t *testing.T) {
	if got := Text("<b>hello</b> world"); got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestTextStripsEncodedTags(t *testing.T) {
	if got := Text("&lt;script&gt;alert(1)&lt;/script&gt;hi"); got != "alert(1)hi" {
		t.Fatalf("got %q", got)
	}
}

func TestNameCollapsesWhitespace(t *testing.T) {
	if got := Name("  Ada   <i>Lovelace</i> "); got != "Ada Lovelace" {
		t.Fatalf("got %q", got)
	}
}
