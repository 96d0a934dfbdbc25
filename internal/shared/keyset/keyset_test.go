package keyset

import "testing"

type scoreCursor struct {
	Score   float64 `json:"score"`
	VideoID string  `json:"video_id"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	token := Encode(scoreCursor{Score: 1.25, VideoID: "video-1"})
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	decoded, ok := Decode[scoreCursor](token)
	if !ok {
		t.Fatalf("expected decode to succeed")
	}
	if decoded.Score != 1.25 || decoded.VideoID != "video-1" {
		t.Fatalf("unexpected cursor payload: %#v", decoded)
	}
}

func TestDecodeRejectsForgedTokens(t *testing.T) {
	for _, token := range []string{"", "not-base64!!", "bm90LWpzb24"} {
		if _, ok := Decode[scoreCursor](token); ok {
			t.Fatalf("expected decode failure for %q", token)
		}
	}
}

func TestCutDetectsNextPage(t *testing.T) {
	rows := []int{1, 2, 3, 4}

	page, hasMore := Cut(rows, 3)
	if !hasMore {
		t.Fatalf("expected a next page when limit+1 rows exist")
	}
	if len(page) != 3 || page[2] != 3 {
		t.Fatalf("unexpected page: %v", page)
	}

	page, hasMore = Cut(rows, 4)
	if hasMore {
		t.Fatalf("expected no next page at exact limit")
	}
	if len(page) != 4 {
		t.Fatalf("unexpected page: %v", page)
	}
}
