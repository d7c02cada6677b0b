// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package avl

import (
	"math/rand"
	"testing"
)

func check(t *testing.T, n *Node) int8 {
	t.Helper()
	if n == nil {
		return 0
	}
	if n.left != nil && n.left.Key >= n.Key {
		t.Fatal("left key", n.left.Key, ">=", n.Key)
	}
	if n.right != nil && n.right.Key <= n.Key {
		t.Fatal("right key", n.right.Key, "<=", n.Key)
	}
	l, r := check(t, n.left), check(t, n.right)
	if d := l - r; d > 1 || d < -1 {
		t.Fatal("unbalanced at", n.Key, l, r)
	}
	h := l
	if r > h {
		h = r
	}
	if n.height != h+1 {
		t.Fatal("height at", n.Key, n.height, "!=", h+1)
	}
	return n.height
}

func TestAscending(t *testing.T) {
	var tree Tree
	nodes := make([]Node, 1000)
	for i := range nodes {
		nodes[i].Key = uint32(i)
		nodes[i].Value = i
		if tree.Insert(&nodes[i]) != nil {
			t.Fatal("unexpected replace of", i)
		}
	}
	check(t, tree.root)
	if tree.Len() != len(nodes) {
		t.Error("wrong len:", tree.Len())
	}
	if h := height(tree.root); h > 15 {
		t.Error("too tall:", h)
	}
	for i := range nodes {
		if n := tree.Find(uint32(i)); n != &nodes[i] {
			t.Fatal("wrong node for", i)
		}
	}
	if tree.Find(uint32(len(nodes))) != nil {
		t.Error("found missing key")
	}
}

func TestRandom(t *testing.T) {
	var tree Tree
	r := rand.New(rand.NewSource(1))
	nodes := make([]Node, 500)
	keys := make(map[uint32]*Node)
	for i := range nodes {
		nodes[i].Key = uint32(r.Intn(300))
		tree.Insert(&nodes[i])
		keys[nodes[i].Key] = &nodes[i]
		check(t, tree.root)
	}
	if tree.Len() != len(keys) {
		t.Error("wrong len:", tree.Len(), "!=", len(keys))
	}
	for k, n := range keys {
		if tree.Find(k) != n {
			t.Fatal("latest insert not found for", k)
		}
	}
	var last int64 = -1
	tree.Walk(func(n *Node) bool {
		if int64(n.Key) <= last {
			t.Fatal("walk out of order at", n.Key)
		}
		last = int64(n.Key)
		return true
	})
}

func TestReplace(t *testing.T) {
	var tree Tree
	a := Node{Key: 7, Value: "a"}
	b := Node{Key: 7, Value: "b"}
	others := []Node{{Key: 3}, {Key: 11}, {Key: 1}, {Key: 9}}
	tree.Insert(&a)
	for i := range others {
		tree.Insert(&others[i])
	}
	if old := tree.Insert(&b); old != &a {
		t.Fatal("replaced node not returned")
	}
	if n := tree.Find(7); n != &b || n.Value != "b" {
		t.Error("wrong node after replace")
	}
	if old := tree.Insert(&b); old != &b {
		t.Error("reinsert didn't return itself")
	}
	check(t, tree.root)
	if tree.Len() != 5 {
		t.Error("wrong len:", tree.Len())
	}
	tree.Reset()
	if tree.Find(7) != nil || tree.Len() != 0 {
		t.Error("reset failed")
	}
}
