package graph

// findCycle returns the identities participating in a required-edge cycle,
// in traversal order, or nil when the graph is acyclic.
func (g *Graph) findCycle() []string {
	visiting := make(map[string]bool, len(g.objects))
	visited := make(map[string]bool, len(g.objects))
	var stack []string

	var cycle []string
	var dfs func(string) bool
	dfs = func(id string) bool {
		visiting[id] = true
		stack = append(stack, id)

		for _, dep := range g.requires[id] {
			if visited[dep] {
				continue
			}
			if visiting[dep] {
				at := indexOf(stack, dep)
				if at >= 0 {
					cycle = append([]string{}, stack[at:]...)
					cycle = append(cycle, dep)
				}
				return true
			}
			if dfs(dep) {
				return true
			}
		}

		visiting[id] = false
		visited[id] = true
		stack = stack[:len(stack)-1]
		return false
	}

	for _, obj := range g.objects {
		id := obj.ID()
		if visited[id] {
			continue
		}
		if dfs(id) {
			break
		}
	}

	return cycle
}

func indexOf(slice []string, target string) int {
	for i, v := range slice {
		if v == target {
			return i
		}
	}
	return -1
}
