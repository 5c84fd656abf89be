// Package bilingo provides machine-translated, dual-language articles for
// static-site generators.
//
// Bilingo intercepts each article before rendering, translates it through an
// OpenAI-compatible chat backend, caches the result keyed by a content
// fingerprint, and wraps both language variants into one artifact that the
// page can switch between on the client.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/bilingo"
//	    "github.com/ZaguanLabs/bilingo/cache"
//	    "github.com/ZaguanLabs/bilingo/provider"
//	)
//
//	func main() {
//	    cfg := bilingo.DefaultConfig()
//	    cfg.Enable = true
//	    cfg.APIKey = os.Getenv("BILINGO_API_KEY")
//
//	    // Acquire the store for the batch and release it at the end
//	    store := cache.NewStore(cache.DefaultPath)
//	    defer store.Close()
//
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey:   cfg.APIKey,
//	        Endpoint: cfg.Endpoint,
//	    })
//
//	    t := bilingo.NewTranslator(cfg, bilingo.NewRetryingTransport(p, cfg.RetryConfig()), store)
//
//	    item, state := t.Process(context.Background(), bilingo.ContentItem{
//	        Source: "_posts/hello.md",
//	        Title:  "你好世界",
//	        Body:   "正文",
//	        Layout: "post",
//	    })
//	    fmt.Println(state, item.Title)
//	}
package bilingo
