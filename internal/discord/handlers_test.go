package discord

import (
	"strings"
	"testing"
	"time"
)

// --- cleanAddress ---

func TestCleanAddress_Mention(t *testing.T) {
	got := cleanAddress("<@123456> hello", "123456", "")
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCleanAddress_NicknameMention(t *testing.T) {
	got := cleanAddress("<@!123456> hello", "123456", "")
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCleanAddress_BotName(t *testing.T) {
	got := cleanAddress("DisClaude, what time is it?", "123", "DisClaude")
	if got != "what time is it?" {
		t.Errorf("got %q, want %q", got, "what time is it?")
	}
}

func TestCleanAddress_BotNameCaseInsensitive(t *testing.T) {
	got := cleanAddress("hey disclaude can you help", "123", "DisClaude")
	if got != "hey can you help" {
		t.Errorf("got %q, want %q", got, "hey can you help")
	}
}

func TestCleanAddress_NamePartOfWord(t *testing.T) {
	// "disclaudette" must not lose its prefix
	got := cleanAddress("ping disclaudette", "123", "DisClaude")
	if got != "ping disclaudette" {
		t.Errorf("got %q, want %q", got, "ping disclaudette")
	}
}

func TestCleanAddress_WrongUser(t *testing.T) {
	got := cleanAddress("<@999> hello", "123", "")
	if got != "<@999> hello" {
		t.Errorf("got %q, want %q", got, "<@999> hello")
	}
}

func TestCleanAddress_Empty(t *testing.T) {
	if got := cleanAddress("", "123", "Bot"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestCleanAddress_OnlyMention(t *testing.T) {
	if got := cleanAddress("<@123>", "123", ""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

// --- splitMessage ---

func TestSplitMessage_Short(t *testing.T) {
	chunks := splitMessage("hello", 2000)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("expected single chunk 'hello', got %v", chunks)
	}
}

func TestSplitMessage_ExactLimit(t *testing.T) {
	s := strings.Repeat("a", 2000)
	chunks := splitMessage(s, 2000)
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplitMessage_SplitsAtNewline(t *testing.T) {
	s := strings.Repeat("a", 15) + "\n" + strings.Repeat("b", 15)
	chunks := splitMessage(s, 20)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != strings.Repeat("a", 15)+"\n" {
		t.Errorf("chunk[0] = %q", chunks[0])
	}
	if chunks[1] != strings.Repeat("b", 15) {
		t.Errorf("chunk[1] = %q", chunks[1])
	}
}

func TestSplitMessage_NoNewlineFallback(t *testing.T) {
	s := strings.Repeat("x", 50)
	chunks := splitMessage(s, 20)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 20 || len(chunks[1]) != 20 || len(chunks[2]) != 10 {
		t.Errorf("chunk lengths = %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestSplitMessage_FinalChunkKeepsNewlines(t *testing.T) {
	// Once the remainder fits, it stays a single chunk.
	s := strings.Repeat("a", 19) + "\n" + "line3\nline4"
	chunks := splitMessage(s, 20)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[1] != "line3\nline4" {
		t.Errorf("chunk[1] = %q", chunks[1])
	}
}

func TestSplitMessage_Empty(t *testing.T) {
	chunks := splitMessage("", 2000)
	if len(chunks) != 1 || chunks[0] != "" {
		t.Errorf("expected single empty chunk, got %v", chunks)
	}
}

// --- rateLimiter ---

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !rl.Allow("u1", now) {
			t.Fatalf("message %d was denied within limit", i+1)
		}
	}
	if rl.Allow("u1", now) {
		t.Error("message over the limit was allowed")
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	now := time.Now()

	rl.Allow("u1", now)
	rl.Allow("u1", now)
	if rl.Allow("u1", now.Add(30*time.Second)) {
		t.Error("allowed inside the window")
	}
	if !rl.Allow("u1", now.Add(61*time.Second)) {
		t.Error("denied after the window expired")
	}
}

func TestRateLimiter_PerUser(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	now := time.Now()

	rl.Allow("u1", now)
	if rl.Allow("u1", now) {
		t.Error("u1 allowed over limit")
	}
	if !rl.Allow("u2", now) {
		t.Error("u2 denied by u1's traffic")
	}
}

func TestRateLimiter_DenialDoesNotConsume(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	now := time.Now()

	rl.Allow("u1", now)
	for i := 0; i < 5; i++ {
		rl.Allow("u1", now.Add(time.Duration(i)*time.Second))
	}
	// The single recorded message expires; denials added nothing.
	if !rl.Allow("u1", now.Add(61*time.Second)) {
		t.Error("denied after the only counted message expired")
	}
}
