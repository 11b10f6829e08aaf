// Copyright 2024 G-Core Innovations SARL

package kvstore_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/G-Core/FastEdge-sdk-go/fetest"
	"github.com/G-Core/FastEdge-sdk-go/kvstore"
)

func testHost() *fetest.Host {
	return &fetest.Host{Stores: map[string]*fetest.StoreData{
		"default": {
			Values: map[string]string{
				"greeting":   "hello",
				"empty":      "",
				"session:a":  "1",
				"session:b":  "2",
				"visitor:42": "x",
			},
			ZSets: map[string]map[string]float64{
				"leaderboard": {"alice": 10, "bob": 20, "carol": 30},
			},
			Blooms: map[string]map[string]bool{
				"seen-ips": {"10.0.0.1": true},
			},
		},
		"restricted": {Denied: true},
	}}
}

func TestOpen(t *testing.T) {
	restore := testHost().Install()
	defer restore()

	if _, err := kvstore.Open("absent"); !errors.Is(err, kvstore.ErrStoreNotFound) {
		t.Errorf("Open(absent) err = %v, want ErrStoreNotFound", err)
	}
	if _, err := kvstore.Open("restricted"); !errors.Is(err, kvstore.ErrAccessDenied) {
		t.Errorf("Open(restricted) err = %v, want ErrAccessDenied", err)
	}
	if _, err := kvstore.OpenDefault(); err != nil {
		t.Errorf("OpenDefault() err = %v", err)
	}
}

func TestGet(t *testing.T) {
	restore := testHost().Install()
	defer restore()

	store, err := kvstore.OpenDefault()
	if err != nil {
		t.Fatal(err)
	}

	have, err := store.Get("greeting")
	if err != nil {
		t.Fatal(err)
	}
	if want := "hello"; string(have) != want {
		t.Errorf("Get(greeting) = %q, want %q", have, want)
	}

	// An empty value is a hit, not a miss.
	have, err = store.Get("empty")
	if err != nil {
		t.Fatalf("Get(empty) err = %v", err)
	}
	if len(have) != 0 {
		t.Errorf("Get(empty) = %q, want empty", have)
	}

	if _, err := store.Get("absent"); !errors.Is(err, kvstore.ErrKeyNotFound) {
		t.Errorf("Get(absent) err = %v, want ErrKeyNotFound", err)
	}
}

func TestScan(t *testing.T) {
	restore := testHost().Install()
	defer restore()

	store, err := kvstore.OpenDefault()
	if err != nil {
		t.Fatal(err)
	}

	keys, err := store.Scan("session:*")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"session:a", "session:b"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Scan(session:*) = %q, want %q", keys, want)
	}

	keys, err = store.Scan("order:*")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("Scan(order:*) = %q, want none", keys)
	}
}

func TestZRangeByScore(t *testing.T) {
	restore := testHost().Install()
	defer restore()

	store, err := kvstore.OpenDefault()
	if err != nil {
		t.Fatal(err)
	}

	members, err := store.ZRangeByScore("leaderboard", 15, 30)
	if err != nil {
		t.Fatal(err)
	}
	want := []kvstore.ScoredMember{
		{Value: []byte("bob"), Score: 20},
		{Value: []byte("carol"), Score: 30},
	}
	if !reflect.DeepEqual(members, want) {
		t.Errorf("ZRangeByScore = %v, want %v", members, want)
	}

	members, err = store.ZRangeByScore("no-such-set", 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 0 {
		t.Errorf("missing set = %v, want none", members)
	}
}

func TestZScan(t *testing.T) {
	restore := testHost().Install()
	defer restore()

	store, err := kvstore.OpenDefault()
	if err != nil {
		t.Fatal(err)
	}

	members, err := store.ZScan("leaderboard", "*o*")
	if err != nil {
		t.Fatal(err)
	}
	want := []kvstore.ScoredMember{
		{Value: []byte("bob"), Score: 20},
		{Value: []byte("carol"), Score: 30},
	}
	if !reflect.DeepEqual(members, want) {
		t.Errorf("ZScan(*o*) = %v, want %v", members, want)
	}
}

func TestBFExists(t *testing.T) {
	restore := testHost().Install()
	defer restore()

	store, err := kvstore.OpenDefault()
	if err != nil {
		t.Fatal(err)
	}

	exists, err := store.BFExists("seen-ips", "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("BFExists(10.0.0.1) = false, want true")
	}

	exists, err = store.BFExists("seen-ips", "192.168.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("BFExists(192.168.0.1) = true, want false")
	}
}

func TestNilStore(t *testing.T) {
	t.Parallel()

	var store *kvstore.Store

	if _, err := store.Get("k"); !errors.Is(err, kvstore.ErrKeyNotFound) {
		t.Errorf("nil store Get err = %v, want ErrKeyNotFound", err)
	}
	if keys, err := store.Scan("*"); err != nil || keys != nil {
		t.Errorf("nil store Scan = (%v, %v), want (nil, nil)", keys, err)
	}
	if members, err := store.ZRangeByScore("k", 0, 1); err != nil || members != nil {
		t.Errorf("nil store ZRangeByScore = (%v, %v), want (nil, nil)", members, err)
	}
	if members, err := store.ZScan("k", "*"); err != nil || members != nil {
		t.Errorf("nil store ZScan = (%v, %v), want (nil, nil)", members, err)
	}
	if exists, err := store.BFExists("k", "x"); err != nil || exists {
		t.Errorf("nil store BFExists = (%v, %v), want (false, nil)", exists, err)
	}
}
