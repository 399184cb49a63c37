package session

import (
	"sync"
	"testing"
	"time"

	"github.com/fincompare/fincompare/internal/config"
	"github.com/fincompare/fincompare/internal/port/llm"
)

func testConfig() config.Session {
	return config.Session{
		MaxSessions: 16,
		MaxHistory:  6,
		IdleTTL:     time.Minute,
	}
}

func TestGetOrCreateMintsID(t *testing.T) {
	st, err := NewStore(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	sess := st.GetOrCreate("")
	if sess.ID == "" {
		t.Fatal("expected a minted context id")
	}

	again := st.GetOrCreate(sess.ID)
	if again != sess {
		t.Fatal("expected the same session for a known id")
	}
}

func TestGetOrCreateUsesSuppliedID(t *testing.T) {
	st, err := NewStore(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	sess := st.GetOrCreate("ctx-1")
	if sess.ID != "ctx-1" {
		t.Fatalf("expected ctx-1, got %s", sess.ID)
	}
	if sess.Len() != 0 {
		t.Fatalf("expected empty history, got %d", sess.Len())
	}
}

func TestHistorySurvivesAcrossTurns(t *testing.T) {
	st, err := NewStore(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	sess := st.GetOrCreate("ctx-retain")
	sess.Lock()
	sess.Append(
		llm.Message{Role: llm.RoleUser, Content: "first question"},
		llm.Message{Role: llm.RoleAssistant, Content: "first answer"},
	)
	sess.Unlock()

	// Other contexts filling in must not displace a session while the
	// store is under its session cap.
	for i := 0; i < 4; i++ {
		other := st.GetOrCreate("")
		other.Lock()
		other.Append(llm.Message{Role: llm.RoleUser, Content: "noise"})
		other.Unlock()
	}

	again := st.GetOrCreate("ctx-retain")
	if again != sess {
		t.Fatal("expected the stored session on the next turn")
	}
	again.Lock()
	defer again.Unlock()
	if again.Len() != 2 {
		t.Fatalf("expected 2 history messages on the next turn, got %d", again.Len())
	}
	if again.History()[0].Content != "first question" {
		t.Fatalf("unexpected first message: %q", again.History()[0].Content)
	}
}

func TestAppendTrimsOldest(t *testing.T) {
	st, err := NewStore(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	sess := st.GetOrCreate("ctx-trim")
	sess.Lock()
	defer sess.Unlock()

	for i := 0; i < 5; i++ {
		sess.Append(
			llm.Message{Role: llm.RoleUser, Content: "question"},
			llm.Message{Role: llm.RoleAssistant, Content: "answer"},
		)
	}

	if sess.Len() != 6 {
		t.Fatalf("expected history trimmed to 6, got %d", sess.Len())
	}
	// Oldest turns dropped, newest kept.
	hist := sess.History()
	if hist[len(hist)-1].Role != llm.RoleAssistant {
		t.Fatalf("expected assistant last, got %s", hist[len(hist)-1].Role)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	st, err := NewStore(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	sess := st.GetOrCreate("ctx-copy")
	sess.Lock()
	sess.Append(llm.Message{Role: llm.RoleUser, Content: "hello"})
	hist := sess.History()
	sess.Unlock()

	hist[0].Content = "mutated"

	sess.Lock()
	defer sess.Unlock()
	if sess.History()[0].Content != "hello" {
		t.Fatal("History must return a copy")
	}
}

func TestEvict(t *testing.T) {
	st, err := NewStore(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	sess := st.GetOrCreate("ctx-evict")
	sess.Lock()
	sess.Append(llm.Message{Role: llm.RoleUser, Content: "hello"})
	sess.Unlock()

	st.Evict("ctx-evict")

	fresh := st.GetOrCreate("ctx-evict")
	fresh.Lock()
	defer fresh.Unlock()
	if fresh.Len() != 0 {
		t.Fatalf("expected fresh session after eviction, got %d messages", fresh.Len())
	}
}

func TestIdleExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTTL = 20 * time.Millisecond
	st, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	sess := st.GetOrCreate("ctx-ttl")
	sess.Lock()
	sess.Append(llm.Message{Role: llm.RoleUser, Content: "hello"})
	sess.Unlock()

	time.Sleep(50 * time.Millisecond)

	fresh := st.GetOrCreate("ctx-ttl")
	fresh.Lock()
	defer fresh.Unlock()
	if fresh.Len() != 0 {
		t.Fatalf("expected expired session to be recreated, got %d messages", fresh.Len())
	}
}

func TestConcurrentSameContextSerializes(t *testing.T) {
	st, err := NewStore(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := st.GetOrCreate("ctx-race")
			sess.Lock()
			defer sess.Unlock()
			sess.Append(
				llm.Message{Role: llm.RoleUser, Content: "q"},
				llm.Message{Role: llm.RoleAssistant, Content: "a"},
			)
			// A turn must never observe a user message without its answer.
			hist := sess.History()
			if hist[len(hist)-1].Role != llm.RoleAssistant {
				t.Error("interleaved turn detected")
			}
		}()
	}
	wg.Wait()
}
