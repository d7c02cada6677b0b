// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package avl provides a height balanced binary search tree over nodes
// supplied and owned by the caller.
//
// The tree never allocates; Insert links the given node and Find returns it.
// Nodes are never removed, so a tree only grows until Reset.
package avl

// Node is embedded or held by the caller for the lifetime of the tree.
type Node struct {
	Key   uint32
	Value interface{}

	left, right *Node
	height      int8
}

type Tree struct {
	root *Node
	n    int
}

// Len returns the number of linked nodes.
func (t *Tree) Len() int { return t.n }

// Reset forgets all nodes. The nodes themselves are left as is.
func (t *Tree) Reset() {
	t.root = nil
	t.n = 0
}

// Find returns the node with the given key or nil.
func (t *Tree) Find(key uint32) *Node {
	n := t.root
	for n != nil {
		switch {
		case key < n.Key:
			n = n.left
		case key > n.Key:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Insert links the node by its Key. If a node with the same key is already
// linked, the given node takes its place and the old node is returned.
func (t *Tree) Insert(node *Node) (replaced *Node) {
	if t.Find(node.Key) == node {
		return node
	}
	node.left, node.right, node.height = nil, nil, 1
	t.root = t.insert(t.root, node, &replaced)
	if replaced == nil {
		t.n++
	}
	return
}

// Walk calls fn for each node in ascending key order until fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	walk(t.root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, fn) && fn(n) && walk(n.right, fn)
}

func (t *Tree) insert(n, node *Node, replaced **Node) *Node {
	if n == nil {
		return node
	}
	switch {
	case node.Key < n.Key:
		n.left = t.insert(n.left, node, replaced)
	case node.Key > n.Key:
		n.right = t.insert(n.right, node, replaced)
	default:
		node.left, node.right, node.height = n.left, n.right, n.height
		n.left, n.right = nil, nil
		*replaced = n
		return node
	}
	return balance(n)
}

func height(n *Node) int8 {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *Node) fix() {
	l, r := height(n.left), height(n.right)
	if l > r {
		n.height = l + 1
	} else {
		n.height = r + 1
	}
}

func rotateRight(n *Node) *Node {
	l := n.left
	n.left = l.right
	l.right = n
	n.fix()
	l.fix()
	return l
}

func rotateLeft(n *Node) *Node {
	r := n.right
	n.right = r.left
	r.left = n
	n.fix()
	r.fix()
	return r
}

func balance(n *Node) *Node {
	n.fix()
	switch bf := height(n.left) - height(n.right); {
	case bf > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}
