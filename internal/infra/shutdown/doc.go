// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// The interactive shell keeps an index open for as long as it runs. When
// SIGINT or SIGTERM arrives while it waits on input, the registered hooks
// save the shell history and close the index before the process exits.
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return eng.Close() })
//	go func() {
//		if sig, _ := h.Wait(ctx); sig != nil {
//			os.Exit(shutdown.ExitCode(sig))
//		}
//	}()
package shutdown
