package latency

// VectorAccessCycles returns the cycle count for a vector load or store
// over the given ordered address list, modeling bank conflicts in vector
// data memory.
//
// Addresses issue one per cycle (the conflict model treats lanes as one,
// independent of numLanes). Each access occupies its bank for
// vdmBankBusyTime cycles; hitting a still-busy bank serialises behind the
// outstanding access at a one-cycle penalty. The iteration runs one wave
// past the last address: the trailing empty wave is intentional and
// accounts for the issue-pipeline cliff after the final access. Whatever
// bank occupancy remains after the last wave drains at the end.
func (t *Table) VectorAccessCycles(addrs []int) int {
	cycles := t.config.VLSPipelineDepth
	banks := make([]int, t.config.VDMNumBanks)

	for wave := 0; wave <= len(addrs); wave++ {
		if wave < len(addrs) {
			b := addrs[wave] % t.config.VDMNumBanks
			if banks[b] != 0 {
				banks[b]++
			}
			banks[b] += t.config.VDMBankBusyTime
		}

		for i := range banks {
			if banks[i] > 0 {
				banks[i]--
			}
		}
		cycles++
	}

	tail := 0
	for _, b := range banks {
		if b > tail {
			tail = b
		}
	}
	return cycles + tail
}
