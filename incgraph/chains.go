package incgraph

// Chains returns every include chain from one file to another as a
// sequence of canonical paths, shortest chains first. Only simple
// chains are reported; a file appears at most once per chain, so
// cycles cannot make the search run forever. At most limit chains are
// returned when limit is positive.
func (g *Graph) Chains(from, to string, limit int) ([][]string, error) {
	adjacency, err := g.Adjacency()
	if err != nil {
		return nil, err
	}
	if _, ok := adjacency[from]; !ok {
		return nil, nil
	}
	if _, ok := adjacency[to]; !ok {
		return nil, nil
	}

	var chains [][]string
	queue := [][]string{{from}}
	for len(queue) > 0 {
		chain := queue[0]
		queue = queue[1:]

		tail := chain[len(chain)-1]
		if tail == to {
			chains = append(chains, chain)
			if limit > 0 && len(chains) == limit {
				break
			}
			continue
		}

		onChain := make(map[string]bool, len(chain))
		for _, path := range chain {
			onChain[path] = true
		}

		// Adjacency lists are sorted, so chains of equal length come
		// out in path order.
		for _, next := range adjacency[tail] {
			if onChain[next] {
				continue
			}
			extended := make([]string, len(chain), len(chain)+1)
			copy(extended, chain)
			queue = append(queue, append(extended, next))
		}
	}
	return chains, nil
}

// Reaches reports whether any include chain leads from one file to
// another.
func (g *Graph) Reaches(from, to string) (bool, error) {
	adjacency, err := g.Adjacency()
	if err != nil {
		return false, err
	}

	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			return true, nil
		}
		for _, next := range adjacency[current] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false, nil
}
