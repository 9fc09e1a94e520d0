// workloads.go — demo job bodies exercising the scheduler.
//
// Three shapes of parallelism: recursive fork/join where every node both
// submits and waits (Fibonacci), wide flat batches over dataset chunks
// (sums and SHA3 digests), and independent compute-heavy jobs (vector
// transform + sort).

package main

import (
	"math"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"main/debug"
	"main/jobs"
	"main/utils"

	"golang.org/x/crypto/sha3"
)

const (
	numVectorJobs = 100
	vectorWorkDim = 300
	datasetChunks = 64
)

// fibInvocations counts every Fibonacci job body; a run of fib(n) must
// total 2*fib(n+1)-1 invocations.
var fibInvocations atomic.Uint32

// calculateFibonacci computes fib(*arg) in place by recursive fork/join.
// Each node forks two children against a stack-local counter and parks on
// it, so the full call tree is live on suspended fibers at the deepest
// point.
func calculateFibonacci(w *jobs.Worker, arg any) {
	n := arg.(*int32)
	if *n > 1 {
		a := *n - 1
		b := *n - 2

		var c jobs.Counter
		w.System().RunJobs([]jobs.JobDecl{
			{Fn: calculateFibonacci, Arg: &a},
			{Fn: calculateFibonacci, Arg: &b},
		}, &c)
		w.WaitForCounter(&c)

		*n = a + b
	}
	fibInvocations.Add(1)
}

// vectorWork is a self-contained compute job: fill a vector from a fixed
// seed, run a quadratic sin/cos transform over it, then sort. The sort
// keeps the transform from folding away.
func vectorWork(_ *jobs.Worker, _ any) {
	rng := rand.New(rand.NewSource(datasetSeed))
	data := make([]float64, vectorWorkDim)
	for i := range data {
		data[i] = rng.Float64()
	}

	for i := 0; i < vectorWorkDim; i++ {
		sum := 0.0
		for j := 0; j < vectorWorkDim; j++ {
			sum += math.Sin(data[j]) * math.Cos(data[(i+j)%vectorWorkDim])
		}
		data[i] = math.Exp(math.Abs(sum))
	}

	sort.Float64s(data)
}

// chunkSum adds one dataset chunk into its result slot.
type chunkSumArg struct {
	chunk []float64
	out   *float64
}

func chunkSum(_ *jobs.Worker, arg any) {
	a := arg.(*chunkSumArg)
	sum := 0.0
	for _, v := range a.chunk {
		sum += v
	}
	*a.out = sum
}

// chunkDigest hashes one dataset chunk with SHA3-256 into its result slot.
type chunkDigestArg struct {
	chunk []float64
	out   *[32]byte
}

func chunkDigest(_ *jobs.Worker, arg any) {
	a := arg.(*chunkDigestArg)
	h := sha3.New256()
	var buf [8]byte
	for _, v := range a.chunk {
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}
	copy(a.out[:], h.Sum(nil))
}

// runDemo is the entry job: it drives the workloads in sequence,
// reusing one counter across batches the way any production submitter
// would.
func runDemo(w *jobs.Worker, data []float64) {
	sys := w.System()
	begin := time.Now()

	// Workload 1: recursive fork/join.
	fibInvocations.Store(0)
	n := int32(13)
	var counter jobs.Counter
	sys.RunJobs([]jobs.JobDecl{{Fn: calculateFibonacci, Arg: &n}}, &counter)
	w.WaitForCounter(&counter)
	debug.DropMessage("FIB", "fib(13) = "+utils.Itoa(int(n))+" in "+utils.Itoa(int(fibInvocations.Load()))+" invocations")

	// Workload 2: wide flat parallelism over the dataset.
	sums := make([]float64, datasetChunks)
	sumJobs := make([]jobs.JobDecl, datasetChunks)
	for i := 0; i < datasetChunks; i++ {
		lo, hi := chunkBounds(len(data), datasetChunks, i)
		sumJobs[i] = jobs.JobDecl{Fn: chunkSum, Arg: &chunkSumArg{chunk: data[lo:hi], out: &sums[i]}}
	}
	sys.RunJobs(sumJobs, &counter) // counter reuse after a completed wait
	w.WaitForCounter(&counter)
	total := 0.0
	for _, s := range sums {
		total += s
	}
	debug.DropMessage("SUM", "dataset total ≈ "+utils.Itoa(int(total)))

	// Workload 3: SHA3 digests of the same chunks.
	digests := make([][32]byte, datasetChunks)
	digJobs := make([]jobs.JobDecl, datasetChunks)
	for i := 0; i < datasetChunks; i++ {
		lo, hi := chunkBounds(len(data), datasetChunks, i)
		digJobs[i] = jobs.JobDecl{Fn: chunkDigest, Arg: &chunkDigestArg{chunk: data[lo:hi], out: &digests[i]}}
	}
	sys.RunJobs(digJobs, &counter)
	w.WaitForCounter(&counter)
	combined := sha3.New256()
	for i := range digests {
		combined.Write(digests[i][:])
	}
	root := combined.Sum(nil)
	debug.DropMessage("DIGEST", utils.Itoa(datasetChunks)+" chunks, root byte "+utils.Itoa(int(root[0])))

	// Workload 4: independent compute-heavy jobs.
	vecJobs := make([]jobs.JobDecl, numVectorJobs)
	for i := range vecJobs {
		vecJobs[i] = jobs.JobDecl{Fn: vectorWork}
	}
	sys.RunJobs(vecJobs, &counter)
	w.WaitForCounter(&counter)
	debug.DropMessage("VECTOR", utils.Itoa(numVectorJobs)+" jobs done, left: "+utils.Itoa(int(counter.Load())))

	debug.DropMessage("TIME", utils.Itoa(int(time.Since(begin).Milliseconds()))+" ms")
}

// chunkBounds returns the half-open range of chunk i when length items are
// split into parts near-equal slices.
func chunkBounds(length, parts, i int) (int, int) {
	lo := i * length / parts
	hi := (i + 1) * length / parts
	return lo, hi
}
