package main

import (
	"flag"

	"github.com/df07/go-sphere-tracer/web/server"
	"github.com/golang/glog"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()
	defer glog.Flush()

	webServer := server.NewServer(*port)

	glog.Infof("Sphere Tracer Web Server")
	glog.Infof("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		glog.Exitf("Error starting server: %v", err)
	}
}
