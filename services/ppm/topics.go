package ppm

import "trainerlink-go/bus"

func topicConfig() bus.Topic  { return bus.T("config", "ppm") }
func topicState() bus.Topic   { return bus.T("ppm", "state") }
func topicFrame() bus.Topic   { return bus.T("ppm", "frame") }
func topicDevices() bus.Topic { return bus.T("input", "devices") }
