package core

import (
	"fmt"
	"testing"
)

type box struct {
	Chained
}

type holder struct {
	name string
}

func chainedBox(r *Runtime, tag Tag, h *holder, payload interface{}) *box {
	b := &box{}
	r.InitChained(&b.Chained, tag)
	b.SetPayload(payload)
	var container interface{}
	if h != nil {
		container = h
	}
	r.Link(container, &b.Chained)
	return b
}

func TestChainInvalidation(t *testing.T) {
	r := NewRuntime()
	tag := r.NewTag("box")

	left := &holder{name: "left"}
	right := &holder{name: "right"}

	var lefts, rights []*box
	for i := 0; i < 5; i++ {
		lefts = append(lefts, chainedBox(r, tag, left, fmt.Sprintf("l%d", i)))
		rights = append(rights, chainedBox(r, tag, right, fmt.Sprintf("r%d", i)))
	}

	r.InvalidateContainer(left)

	for i, b := range lefts {
		if b.Valid() {
			t.Fatalf("lefts[%d] should be invalid", i)
		}
		if _, have := b.ValidPayload(); have {
			t.Fatalf("lefts[%d] should have no payload", i)
		}
	}
	for i, b := range rights {
		if !b.Valid() {
			t.Fatalf("rights[%d] should still be valid", i)
		}
		p, have := b.ValidPayload()
		if !have || p != fmt.Sprintf("r%d", i) {
			t.Fatalf("rights[%d] payload %v", i, p)
		}
	}

	// Again: the chain is gone, so this is a no-op.
	r.InvalidateContainer(left)

	r.InvalidateContainer(right)
	for i, b := range rights {
		if b.Valid() {
			t.Fatalf("rights[%d] should be invalid", i)
		}
	}

	if len(r.chains) != 0 {
		t.Fatalf("%d chains left over", len(r.chains))
	}
}

func TestChainUnlink(t *testing.T) {
	r := NewRuntime()
	tag := r.NewTag("box")

	h := &holder{name: "h"}

	a := chainedBox(r, tag, h, "a")
	b := chainedBox(r, tag, h, "b")
	c := chainedBox(r, tag, h, "c")

	// Middle, then head, then tail; chain bookkeeping has to
	// survive each position.
	r.Unlink(&b.Chained)
	r.Unlink(&c.Chained)
	r.Unlink(&a.Chained)

	if len(r.chains) != 0 {
		t.Fatal("chain head should be gone")
	}

	// Unlinked wrappers keep their payloads.
	for _, x := range []*box{a, b, c} {
		if !x.Valid() {
			t.Fatal("unlinked wrapper should stay valid")
		}
	}

	// Unlinking twice is fine.
	r.Unlink(&a.Chained)

	// Invalidation after everyone left touches nothing.
	r.InvalidateContainer(h)
	if !a.Valid() {
		t.Fatal("a should still be valid")
	}
}

func TestChainStandalone(t *testing.T) {
	r := NewRuntime()
	tag := r.NewTag("box")

	b := chainedBox(r, tag, nil, "solo")

	if len(r.chains) != 0 {
		t.Fatal("standalone wrapper should not make a chain")
	}
	if !b.Valid() {
		t.Fatal("standalone wrapper should be valid")
	}

	r.Unlink(&b.Chained)
	if !b.Valid() {
		t.Fatal("unlink should not invalidate")
	}
}

func TestChainRelink(t *testing.T) {
	r := NewRuntime()
	tag := r.NewTag("box")

	old := &holder{name: "old"}
	niu := &holder{name: "new"}

	b := chainedBox(r, tag, old, "migrant")

	r.Unlink(&b.Chained)
	r.Link(niu, &b.Chained)

	r.InvalidateContainer(old)
	if !b.Valid() {
		t.Fatal("should have survived the old container")
	}

	r.InvalidateContainer(niu)
	if b.Valid() {
		t.Fatal("should have died with the new container")
	}
}
