package dataloader_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestDataLoader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DataLoader Suite")
}
