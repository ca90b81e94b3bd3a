package main

import (
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/open-source-firmware/go-tape-encryption/pkg/ssp"
)

type metricCollector struct {
	m []prometheus.Metric
}

func (mc *metricCollector) Collect(c chan<- prometheus.Metric) {
	for _, m := range mc.m {
		c <- m
	}
}

func (mc *metricCollector) Describe(c chan<- *prometheus.Desc) {
}

func outputMetrics(state Devices) {
	var (
		mDriveInfo = prometheus.NewDesc(
			"tape_drive_info",
			"Info metric regarding the detected tape drives",
			[]string{"device", "vendor", "model", "firmware"}, nil,
		)
		mDriveReady = prometheus.NewDesc(
			"tape_drive_ready",
			"Boolean describing whether the drive has a volume loaded and ready",
			[]string{"device"}, nil,
		)
		mEncSupported = prometheus.NewDesc(
			"tape_encryption_supported",
			"Boolean describing whether the drive offers hardware data encryption",
			[]string{"device"}, nil,
		)
		mEncAlgorithm = prometheus.NewDesc(
			"tape_encryption_algorithm",
			"Encryption algorithms offered by the drive",
			[]string{"device", "index"}, nil,
		)
		mEncEnabled = prometheus.NewDesc(
			"tape_encryption_enabled",
			"Boolean describing whether the drive encrypts blocks written to it",
			[]string{"device"}, nil,
		)
		mDecEnabled = prometheus.NewDesc(
			"tape_decryption_enabled",
			"Boolean describing whether the drive decrypts blocks read from it",
			[]string{"device"}, nil,
		)
		mKeyInstance = prometheus.NewDesc(
			"tape_encryption_key_instance_counter",
			"Counter the drive increments every time a new key is set",
			[]string{"device"}, nil,
		)
		mVolumeEncrypted = prometheus.NewDesc(
			"tape_volume_encrypted_blocks",
			"Boolean describing whether the loaded volume contains encrypted blocks",
			[]string{"device"}, nil,
		)
		mCompression = prometheus.NewDesc(
			"tape_compression_enabled",
			"Boolean describing whether the drive compresses blocks written to it",
			[]string{"device"}, nil,
		)
	)
	mc := &metricCollector{}
	for _, s := range state {
		mc.m = append(mc.m,
			prometheus.MustNewConstMetric(mDriveInfo, prometheus.GaugeValue, 1,
				s.Device, s.Identity.Vendor, s.Identity.Model, s.Identity.Firmware))
		ready := float64(0)
		if s.Ready {
			ready = 1
		}
		mc.m = append(mc.m, prometheus.MustNewConstMetric(mDriveReady, prometheus.GaugeValue, ready, s.Device))
		sup := float64(0)
		if s.Capabilities != nil && len(s.Capabilities.Algorithms) > 0 {
			sup = 1
		}
		mc.m = append(mc.m, prometheus.MustNewConstMetric(mEncSupported, prometheus.GaugeValue, sup, s.Device))

		if s.Capabilities != nil {
			for _, alg := range s.Capabilities.Algorithms {
				mc.m = append(mc.m,
					prometheus.MustNewConstMetric(mEncAlgorithm, prometheus.GaugeValue, 1,
						s.Device, fmt.Sprintf("%d", alg.AlgorithmIndex)))
			}
		}

		// This is how far we can make it without a readable status page
		if s.Status == nil {
			continue
		}

		encEn := float64(0)
		if s.Status.EncryptionMode == ssp.EncryptModeOn {
			encEn = 1
		}
		mc.m = append(mc.m, prometheus.MustNewConstMetric(mEncEnabled, prometheus.GaugeValue, encEn, s.Device))
		decEn := float64(0)
		if s.Status.DecryptionMode != ssp.DecryptModeOff {
			decEn = 1
		}
		mc.m = append(mc.m, prometheus.MustNewConstMetric(mDecEnabled, prometheus.GaugeValue, decEn, s.Device))
		mc.m = append(mc.m, prometheus.MustNewConstMetric(mKeyInstance, prometheus.CounterValue,
			float64(s.Status.KeyInstanceCounter), s.Device))
		vcelb := float64(0)
		if s.Status.VCELB {
			vcelb = 1
		}
		mc.m = append(mc.m, prometheus.MustNewConstMetric(mVolumeEncrypted, prometheus.GaugeValue, vcelb, s.Device))

		if s.Compression != nil {
			compEn := float64(0)
			if s.Compression.Enabled {
				compEn = 1
			}
			// Metric only visible when the compression page is readable
			mc.m = append(mc.m, prometheus.MustNewConstMetric(mCompression, prometheus.GaugeValue, compEn, s.Device))
		}
	}

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(mc)

	mfs, err := reg.Gather()
	if err != nil {
		log.Fatalf("Failed to gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			log.Fatalf("Failed to serialize metrics: %v", err)
		}
	}
}
