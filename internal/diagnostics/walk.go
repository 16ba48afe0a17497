package diagnostics

import "github.com/pheuter/sveltecheck/internal/svelteast"

// walkFragment visits every node in document order, descending into every
// child-node list a Node can carry. Shared by every rule below so each one
// only needs to supply what it does at a node, not how to reach it.
func walkFragment(nodes []svelteast.Node, visit func(svelteast.Node)) {
	for _, n := range nodes {
		visit(n)
		if n.Tag != nil {
			walkFragment(n.Tag.Children, visit)
		}
		if n.If != nil {
			walkFragment(n.If.Then, visit)
			for _, ei := range n.If.ElseIfs {
				walkFragment(ei.Body, visit)
			}
			walkFragment(n.If.Else, visit)
		}
		if n.Each != nil {
			walkFragment(n.Each.Body, visit)
			walkFragment(n.Each.Else, visit)
		}
		if n.Await != nil {
			walkFragment(n.Await.Pending, visit)
			walkFragment(n.Await.Then, visit)
			walkFragment(n.Await.Catch, visit)
		}
		if n.Key != nil {
			walkFragment(n.Key.Body, visit)
		}
		if n.Snippet != nil {
			walkFragment(n.Snippet.Body, visit)
		}
	}
}
