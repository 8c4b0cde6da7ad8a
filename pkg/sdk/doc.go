// Package contenthub embeds the content hub search engine in a Go program.
//
// The client loads the agent, task, data file and template collections from a
// directory of generated JSON files or from Redis, and answers the same
// filter queries as the HTTP API without running a server.
//
//	client, _ := contenthub.New(ctx, contenthub.WithDir("public/data"))
//	defer client.Close()
//
//	res, _ := client.Search(contenthub.TabTasks).
//	    Query("deploy").
//	    Category("Deployment").
//	    Limit(20).
//	    Do(ctx)
//	for _, it := range res.Items {
//	    fmt.Println(it.ID, it.Name, it.Categories)
//	}
//
// Every tab at once, with a shared query and per-tab categories:
//
//	tabs := client.Tabs(ctx, "review", map[contenthub.Tab]string{
//	    contenthub.TabAgents: "Testing",
//	})
package contenthub
