package tests

//go:generate go run ../../dynproxy-gen generate --package github.com/pk910/dynamic-proxy/codegen/tests --types Sayer,Calculator,Store,Greeter --output gen_proxy.go
