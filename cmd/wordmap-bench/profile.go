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

package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/apribadi/wordmap/pkg/logutil"
)

var (
	cpuProfilePathFlag    = flag.String("cpu-profile", "", "write cpu profile to the specified file")
	allocsProfilePathFlag = flag.String("allocs-profile", "", "write allocs profile to the specified file")
	heapProfilePathFlag   = flag.String("heap-profile", "", "write heap profile to the specified file")
)

func startCPUProfile() func() {
	cpuProfilePath := *cpuProfilePathFlag
	if cpuProfilePath == "" {
		return nil
	}
	f, err := os.Create(cpuProfilePath)
	if err != nil {
		panic(err)
	}
	pprof.StartCPUProfile(f)
	logutil.Infof("CPU profiling enabled, writing to %s", cpuProfilePath)
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}

func writeProfile(name, path string) {
	if path == "" {
		return
	}
	profile := pprof.Lookup(name)
	if profile == nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := profile.WriteTo(f, 0); err != nil {
		panic(err)
	}
	logutil.Infof("%s profile written to %s", name, path)
}

func writeAllocsProfile() {
	writeProfile("allocs", *allocsProfilePathFlag)
}

func writeHeapProfile() {
	writeProfile("heap", *heapProfilePathFlag)
}
