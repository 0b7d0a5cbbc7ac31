package firebase

import "testing"

func TestDownloadURL(t *testing.T) {
	got := downloadURL("https://firebasestorage.googleapis.com", "ricettario.appspot.com", "recipes/1700000000000_tiramisù.jpg", "abc-123")
	want := "https://firebasestorage.googleapis.com/v0/b/ricettario.appspot.com/o/recipes%2F1700000000000_tiramis%C3%B9.jpg?alt=media&token=abc-123"
	if got != want {
		t.Fatalf("downloadURL:\n got %s\nwant %s", got, want)
	}

	noToken := downloadURL("http://localhost:9199", "b", "x.png", "")
	if noToken != "http://localhost:9199/v0/b/b/o/x.png?alt=media" {
		t.Fatalf("unexpected URL without token: %s", noToken)
	}
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"", "  ", "a/b"} {
		if validID(id) {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
	if !validID("Xy12abc") {
		t.Fatal("expected plain id to be accepted")
	}
}
