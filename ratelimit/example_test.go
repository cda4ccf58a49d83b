package ratelimit_test

import (
	"fmt"
	"time"

	"github.com/sweengineeringlabs/guardrail/ratelimit"
)

func ExampleNewTokenBucket() {
	tb := ratelimit.NewTokenBucket(ratelimit.TokenBucketConfig{
		Capacity:       2,
		RefillRate:     1,
		RefillInterval: time.Second,
	})

	fmt.Println(tb.Allow())
	fmt.Println(tb.Allow())
	fmt.Println(tb.Allow())
	// Output:
	// true
	// true
	// false
}

func ExampleNewFixedWindow() {
	fw := ratelimit.NewFixedWindow(ratelimit.FixedWindowConfig{
		MaxRequests: 1,
		WindowSize:  time.Minute,
	})

	fmt.Println(fw.Allow())
	fmt.Println(fw.Allow())
	// Output:
	// true
	// false
}

func ExampleNewKeyed() {
	keyed := ratelimit.NewKeyed(ratelimit.KeyedConfig{
		Factory: func() ratelimit.Limiter {
			return ratelimit.NewSlidingWindow(ratelimit.SlidingWindowConfig{
				MaxRequests: 1,
				WindowSize:  time.Minute,
			})
		},
	})

	fmt.Println(keyed.Allow("alice"))
	fmt.Println(keyed.Allow("alice"))
	fmt.Println(keyed.Allow("bob"))
	// Output:
	// true
	// false
	// true
}
