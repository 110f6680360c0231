// Package client is a Go client for the searchcompare HTTP API.
//
//	c := client.New("http://localhost:3000")
//	cmp, err := c.Compare(ctx, "military aircraft")
//	if err != nil { ... }
//	for _, r := range cmp.Results {
//	    fmt.Println(r.Name, r.Result.Ms, len(r.Result.Hits))
//	}
//
// Results keep the server's provider order.
package client
