// Package beehiiv is the request bridge between the MCP tools and the
// beehiiv API v2.
//
// A single primitive, Client.Request, issues one authenticated HTTP call and
// folds every outcome into a *Result:
//
//	res := client.Request(ctx, http.MethodGet, "/publications", nil, nil)
//	if !res.OK() {
//	    return res.Err // e.g. "GET https://api.beehiiv.com/v2/publications returned 401 Unauthorized"
//	}
//	for _, pub := range res.Get("data").Array() {
//	    fmt.Println(pub.Get("id").String())
//	}
//
// Each call builds its own HTTP client, carries the bearer credential, and is
// bounded by RequestTimeout. There are no retries.
package beehiiv
