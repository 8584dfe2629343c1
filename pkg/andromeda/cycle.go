package andromeda

// cycleGuard is a stack-like set of Names representing the requires path
// currently being descended within one Evaluate call. It is exclusively
// owned by that call and discarded on return.
type cycleGuard struct {
	path  []Name
	onSet map[Name]int // Name -> index in path, for O(1) revisit checks
}

func newCycleGuard() *cycleGuard {
	return &cycleGuard{onSet: make(map[Name]int)}
}

// enter pushes n onto the path. It returns false, and the cycle formed by
// the revisit, when n is already on the path.
func (g *cycleGuard) enter(n Name) (path []Name, ok bool) {
	if idx, seen := g.onSet[n]; seen {
		cycle := append(append([]Name{}, g.path[idx:]...), n)
		return cycle, false
	}
	g.onSet[n] = len(g.path)
	g.path = append(g.path, n)
	return nil, true
}

// leave pops n from the path. n must be the most recently entered name that
// has not yet left; callers enforce this via defer immediately after a
// successful enter.
func (g *cycleGuard) leave(n Name) {
	delete(g.onSet, n)
	if len(g.path) > 0 && g.path[len(g.path)-1] == n {
		g.path = g.path[:len(g.path)-1]
	}
}
