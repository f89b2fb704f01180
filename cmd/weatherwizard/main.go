package main

import "github.com/rod-jemeel/WeatherWizard/cmd/weatherwizard/cli"

func main() {
	cli.Execute()
}
