// Package dsl implements the suite definition grammar.
//
// The grammar is keyword driven:
//
//	suite s
//	  edit SUITE_VAR "some value"
//	  family f
//	    limit lim 2
//	    task t1
//	      inlimit /s/f:lim
//	      meter progress 0 100
//	    task t2
//	      trigger t1 == complete
//	    endtask
//	  endfamily
//	endsuite
//
// Parse and ParseFamily produce order-preserving records; building the
// typed node tree from them is the job of package suite.
package dsl
