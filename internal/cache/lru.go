package cache

// lruNode links one key into the recency order.
type lruNode[K comparable] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList orders keys from most to least recently used. It is a ring
// around a sentinel, so insertion and removal never test for nil.
// Callers synchronize access.
type lruList[K comparable] struct {
	root lruNode[K]
	len  int
}

func (l *lruList[K]) lazyInit() {
	if l.root.next == nil {
		l.root.next, l.root.prev = &l.root, &l.root
	}
}

// Len returns the number of keys.
func (l *lruList[K]) Len() int { return l.len }

// PushFront inserts key as most recently used.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	l.lazyInit()
	n := &lruNode[K]{key: key}
	l.insertFront(n)
	return n
}

// MoveToFront marks n most recently used.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertFront(n)
}

// RemoveOldest removes the least recently used key.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}
	n := l.root.prev
	l.unlink(n)
	return n.key, true
}

func (l *lruList[K]) insertFront(n *lruNode[K]) {
	n.prev, n.next = &l.root, l.root.next
	l.root.next.prev = n
	l.root.next = n
	l.len++
}

func (l *lruList[K]) unlink(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	l.len--
}
