//go:build js && wasm

// Command web is the in-browser form served by the /wasm page. It defines the
// global fetchUserData the page's button calls.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"

	"userlookup/internal/render"
	"userlookup/internal/service"
	"userlookup/internal/usersapi"
)

func main() {
	doc := js.Global().Get("document")
	input := doc.Call("getElementById", "userId")
	output := doc.Call("getElementById", "userDetails")

	policy, err := service.ParsePolicy(output.Get("dataset").Get("policy").String())
	if err != nil {
		policy = service.LastResolved
	}

	svc := service.NewLookupService(
		usersapi.New(nil, output.Get("dataset").Get("baseUrl").String()),
		service.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
		service.WithPolicy(policy),
		service.WithDiagnostics(service.DiagnosticsFunc(func(_ context.Context, d service.Diagnostic) error {
			js.Global().Get("console").Call("error", d.Message+":", d.Error)
			return nil
		})),
	)

	form := svc.NewForm(
		service.InputFunc(func() string { return input.Get("value").String() }),
		service.SinkFunc(func(f render.Fragment) { output.Set("innerHTML", f.HTML()) }),
		service.NotifierFunc(func(msg string) { js.Global().Call("alert", msg) }),
	)

	// Callbacks must not block the event loop; fetches run on their own goroutine.
	js.Global().Set("fetchUserData", js.FuncOf(func(js.Value, []js.Value) any {
		go form.Submit(context.Background())
		return nil
	}))

	select {}
}
