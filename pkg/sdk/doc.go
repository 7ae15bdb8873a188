// Package menurank is an embeddable client for the menurank query relevance engine.
//
// It runs the same pipeline as the search API in-process: keyword classification,
// boost synthesis, an eDismax select against the Solr index with the category retry
// ladder, and optional fusion with the semantic similarity service.
//
//	client, _ := menurank.New(
//	    menurank.WithIndex("http://localhost:8983", "menu"),
//	    menurank.WithSemantic("http://localhost:8002"),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "afuri yuzu ramen",
//	    menurank.InSection("Menu"),
//	    menurank.Limit(10),
//	)
//	for _, r := range res.Results {
//	    fmt.Println(r.ID, r.Score, r.Fields["title"])
//	}
//
// Classify explains a query without touching the index, and Diagnose walks the
// index and semantic service checks in order, reporting the first failure.
package menurank
