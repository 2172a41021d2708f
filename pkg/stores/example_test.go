package stores_test

import (
	"context"
	"fmt"
	"log"

	"github.com/openfroyo/boardcfg/pkg/lpcconfig"
	"github.com/openfroyo/boardcfg/pkg/source"
	"github.com/openfroyo/boardcfg/pkg/stores"
)

// ExampleFromResult records a load in an in-memory history.
func ExampleFromResult() {
	ctx := context.Background()

	store, err := stores.Open(ctx, ":memory:")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	src := source.Bytes("board.txt", []byte("lpc.board = smoothieboard\nstepper.digipotFactor = many\n"))
	res, _ := lpcconfig.NewLoader().Load(ctx, src)

	load, issues, err := stores.FromResult(res)
	if err != nil {
		log.Fatal(err)
	}
	if err := store.CreateLoad(ctx, load, issues); err != nil {
		log.Fatal(err)
	}

	loads, _ := store.ListLoads(ctx, stores.ListOptions{Limit: 10})
	for _, l := range loads {
		fmt.Println(l.Source, l.Board, l.Status, l.IssueCount)
	}
	// Output: board.txt smoothieboard degraded 1
}
