package facts

// unionFind groups equal terms. Each class holds at most one constant unless there
// is a clash.
type unionFind struct {
	parent   map[Term]Term
	constant map[Term]Term
	clash    bool
}

func (u *unionFind) add(t Term) {
	if _, ok := u.parent[t]; ok {
		return
	}

	u.parent[t] = t
	if t.Const {
		u.constant[t] = t
	}
}

func (u *unionFind) find(t Term) Term {
	p, ok := u.parent[t]
	if !ok {
		return t
	}
	if p == t {
		return t
	}

	root := u.find(p)
	u.parent[t] = root
	return root
}

func (u *unionFind) union(a, b Term) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}

	ca, aok := u.constant[ra]
	cb, bok := u.constant[rb]
	if aok && bok && ca != cb {
		u.clash = true
	}

	u.parent[rb] = ra
	if !aok && bok {
		u.constant[ra] = cb
	}
	delete(u.constant, rb)
}
