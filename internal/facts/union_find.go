package facts

// unionFind unifies group ids. The representative of a set is always its
// smallest member, so canonical ids do not depend on input order.
type unionFind struct {
	parent map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int)}
}

func (u *unionFind) add(id int) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
	}
}

func (u *unionFind) has(id int) bool {
	_, ok := u.parent[id]
	return ok
}

func (u *unionFind) find(id int) int {
	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	// path compression
	for id != root {
		next := u.parent[id]
		u.parent[id] = root
		id = next
	}

	return root
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
