// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// wordmap-bench drives configurable workloads against wordmap tables.
// Each shard owns one table and one goroutine; sharing work across shards
// is the external sharding scheme the table's concurrency contract asks
// callers to provide.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sys/cpu"

	"github.com/apribadi/wordmap/pkg/config"
	"github.com/apribadi/wordmap/pkg/container/wordmap"
	"github.com/apribadi/wordmap/pkg/logutil"
)

var configPathFlag = flag.String("config", "", "read the workload configuration from the specified TOML file")

func main() {
	flag.Parse()

	var cfg config.BenchConfig
	if *configPathFlag != "" {
		if err := config.LoadBenchConfigFromFile(*configPathFlag, &cfg); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Adjust()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	logutil.SetupGlobalLogger(cfg.Log)
	logEnvironment(&cfg)

	if stop := startCPUProfile(); stop != nil {
		defer stop()
	}

	runShards(&cfg)

	writeAllocsProfile()
	writeHeapProfile()
}

func logEnvironment(cfg *config.BenchConfig) {
	logutil.Info("wordmap-bench starting",
		zap.String("goos", runtime.GOOS),
		zap.String("goarch", runtime.GOARCH),
		zap.Int("numcpu", runtime.NumCPU()),
		zap.Bool("sse42", cpu.X86.HasSSE42),
		zap.Bool("avx2", cpu.X86.HasAVX2),
		zap.Bool("aes", cpu.X86.HasAES),
		zap.Bool("arm64-crc32", cpu.ARM64.HasCRC32),
		zap.Uint64("num-keys", cfg.NumKeys),
		zap.Uint64("operations", cfg.Operations),
		zap.String("distribution", cfg.Distribution),
		zap.Int("shards", cfg.Shards),
	)
}

type shardResult struct {
	preload time.Duration
	mixed   time.Duration
	finds   uint64
	hits    uint64
	inserts uint64
	removes uint64
}

func runShards(cfg *config.BenchConfig) {
	pool, err := ants.NewPool(cfg.Shards)
	if err != nil {
		logutil.Fatal("create worker pool", zap.Error(err))
	}
	defer pool.Release()

	results := make([]shardResult, cfg.Shards)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Shards; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = runShard(cfg, uint64(i))
		}); err != nil {
			wg.Done()
			logutil.Fatal("submit shard", zap.Int("shard", i), zap.Error(err))
		}
	}
	wg.Wait()

	var total shardResult
	for i := range results {
		r := &results[i]
		if r.preload > total.preload {
			total.preload = r.preload
		}
		if r.mixed > total.mixed {
			total.mixed = r.mixed
		}
		total.finds += r.finds
		total.hits += r.hits
		total.inserts += r.inserts
		total.removes += r.removes
	}

	preloadRate := float64(cfg.NumKeys) * float64(cfg.Shards) / total.preload.Seconds()
	mixedRate := float64(cfg.Operations) * float64(cfg.Shards) / total.mixed.Seconds()
	logutil.Info("wordmap-bench done",
		zap.Duration("preload", total.preload),
		zap.Float64("preload-ops-per-sec", preloadRate),
		zap.Duration("mixed", total.mixed),
		zap.Float64("mixed-ops-per-sec", mixedRate),
		zap.Uint64("finds", total.finds),
		zap.Uint64("hits", total.hits),
		zap.Uint64("inserts", total.inserts),
		zap.Uint64("removes", total.removes),
	)
}

func runShard(cfg *config.BenchConfig, shard uint64) (res shardResult) {
	ht, err := wordmap.NewWithOptions[uint64](wordmap.Options{
		InitialCapacity: cfg.InitialCapacity,
		MaxLoadFactor:   cfg.MaxLoadFactor,
	})
	if err != nil {
		logutil.Fatal("create table", zap.Uint64("shard", shard), zap.Error(err))
	}

	rng := rand.New(rand.NewSource(0x9e3779b97f4a7c15 ^ shard))
	gen := newKeyGen(cfg, rng)

	start := time.Now()
	for i := uint64(0); i < cfg.NumKeys; i++ {
		ht.Insert(gen.next(), i)
	}
	res.preload = time.Since(start)

	start = time.Now()
	for i := uint64(0); i < cfg.Operations; i++ {
		key := gen.next()
		switch p := rng.Float64(); {
		case p < cfg.ReadRatio:
			res.finds++
			if _, ok := ht.Get(key); ok {
				res.hits++
			}
		case p < cfg.ReadRatio+cfg.RemoveRatio:
			res.removes++
			ht.Remove(key)
		default:
			res.inserts++
			ht.Insert(key, i)
		}
	}
	res.mixed = time.Since(start)

	logutil.Debug("shard done",
		zap.Uint64("shard", shard),
		zap.Int("len", ht.Len()),
		zap.Uint64("cap", ht.Cap()),
	)
	return
}

type keyGen struct {
	rng  *rand.Rand
	zipf *rand.Zipf
	span uint64
}

func newKeyGen(cfg *config.BenchConfig, rng *rand.Rand) *keyGen {
	g := &keyGen{rng: rng, span: cfg.NumKeys * 2}
	if cfg.Distribution == config.DistributionZipf {
		g.zipf = rand.NewZipf(rng, cfg.ZipfTheta, 1, g.span)
	}
	return g
}

func (g *keyGen) next() uint64 {
	if g.zipf != nil {
		return g.zipf.Uint64()
	}
	return g.rng.Uint64() % g.span
}
