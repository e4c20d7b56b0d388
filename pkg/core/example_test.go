package core_test

import (
	"context"
	"fmt"
	"os"

	"github.com/redactyl/privaudit/pkg/core"
)

// ExampleAudit demonstrates a pre-publish check from Go code.
func ExampleAudit() {
	problems, err := core.Audit(context.Background(), core.Config{Root: "."})
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit failed: %v\n", err)
		return
	}
	for _, p := range problems {
		fmt.Println(p)
	}
}
