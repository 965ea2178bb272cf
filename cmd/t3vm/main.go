package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ternsys/t3vm/machine"
)

func main() {
	var compile string
	var listing bool
	var memWords int
	var maxSteps int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".t3 file to assemble")
	flag.BoolVar(&listing, "d", false, "Disassemble instead of running")
	flag.IntVar(&memWords, "m", machine.DefaultMemWords, "Memory size in words")
	flag.IntVar(&maxSteps, "s", machine.DefaultMaxSteps, "Step budget")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}
	if len(compile) == 0 {
		log.Fatalf("%v: No input file (-c)", os.Args[0])
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	m := machine.New(memWords)
	m.Verbose = verbose

	err = m.LoadAssembly(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if listing {
		fmt.Print(m.Disassemble())
		return
	}

	halted, err := m.Run(maxSteps)
	if err != nil {
		log.Printf("%v: %v", compile, err)
	}
	if !halted {
		log.Printf("%v: step budget of %v exhausted", compile, maxSteps)
	}

	fmt.Print(m.Cpu.String())
}
