package threadparser

import (
	"testing"

	"github.com/avelin/threadkeeper/internal/parserkind"
)

func TestNewDispatchesEveryKind(t *testing.T) {
	kinds := []parserkind.Kind{
		parserkind.Basic, parserkind.FourChan, parserkind.Tinyboard,
		parserkind.AspNetChan, parserkind.Kusabax, parserkind.FoolFuuka,
		parserkind.Ponychan, parserkind.Lainchan,
	}

	for _, k := range kinds {
		if New(k) == nil {
			t.Fatalf("New(%v) returned nil", k)
		}
	}
}

func TestPonychanSharesLainchanImplementation(t *testing.T) {
	_, ponyOK := New(parserkind.Ponychan).(lainchanParser)
	_, lainOK := New(parserkind.Lainchan).(lainchanParser)
	if !ponyOK || !lainOK {
		t.Fatalf("expected both Ponychan and Lainchan to resolve to lainchanParser")
	}
}
